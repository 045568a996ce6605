package main

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntries(t *testing.T) {
	tests := []struct {
		name        string
		raw         []string
		expectErr   bool
		expectedIDs []int
	}{
		{name: "Pairs", raw: []string{"12=4100", " 15 = 20.5 "}, expectedIDs: []int{12, 15}},
		{name: "Missing separator", raw: []string{"12:4100"}, expectErr: true},
		{name: "Bad id", raw: []string{"x=1"}, expectErr: true},
		{name: "Zero id", raw: []string{"0=1"}, expectErr: true},
		{name: "Bad amount", raw: []string{"1=ten"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := parseEntries(tt.raw)
			if tt.expectErr {
				assert.ErrorIs(t, err, errBadEntry)
				return
			}
			require.NoError(t, err)
			require.Len(t, entries, len(tt.expectedIDs))
			for i, id := range tt.expectedIDs {
				assert.Equal(t, id, entries[i].AccountID)
			}
			assert.True(t, entries[1].Amount.Equal(decimal.RequireFromString("20.5")))
		})
	}
}

func TestRootCmd_RejectsBadInputBeforeConnecting(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Settle without flags", args: []string{"settle"}},
		{name: "Settle bad rate", args: []string{"settle", "--rate", "abc", "--pay-till", "2024-10-08", "--entry", "1=1"}},
		{name: "Settle bad entry", args: []string{"settle", "--rate", "41", "--pay-till", "2024-10-08", "--entry", "1"}},
		{name: "History bad date", args: []string{"history", "--from", "01.10.2024", "--to", "2024-10-07"}},
		{name: "Duration bad id", args: []string{"duration", "abc"}},
		{name: "Duration missing id", args: []string{"duration"}},
		{name: "Migrate extra args", args: []string{"migrate", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			assert.Error(t, cmd.Execute())
		})
	}
}
