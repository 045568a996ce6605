package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/GlebRadaev/farmops/internal/cache"
	"github.com/GlebRadaev/farmops/internal/config"
	"github.com/GlebRadaev/farmops/internal/notify"
	"github.com/GlebRadaev/farmops/internal/outbox"
	"github.com/GlebRadaev/farmops/internal/pg"
	"github.com/GlebRadaev/farmops/internal/repo"
	"github.com/GlebRadaev/farmops/internal/service"
	"github.com/GlebRadaev/farmops/internal/service/paymentservice"
	"github.com/GlebRadaev/farmops/pkg/logger"
)

const dateLayout = "2006-01-02"

var errBadEntry = errors.New("entry must look like ACCOUNT_ID=AMOUNT")

type env struct {
	services *service.Services
	close    func()
}

func openPool(ctx context.Context, dsn string) (*config.Config, *pgxpool.Pool, error) {
	cfg := config.Load()
	if dsn != "" {
		cfg.Database = dsn
	}
	if err := logger.InitLogger(cfg); err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.New(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("can't connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("can't connect to database: %w", err)
	}
	return cfg, pool, nil
}

func connect(ctx context.Context, dsn string) (*env, error) {
	cfg, pool, err := openPool(ctx, dsn)
	if err != nil {
		return nil, err
	}

	repos := repo.New(pg.New(pool), pg.NewTXManager(pool))
	dispatcher := outbox.NewDispatcher(1, notify.Log{}, notify.Log{})
	services := service.New(cfg, repos, cache.NewLRU(cfg.DurationCacheLen, cfg.DurationCacheTTL), dispatcher)
	return &env{
		services: services,
		close: func() {
			dispatcher.Close()
			pool.Close()
		},
	}, nil
}

// parseEntries reads ACCOUNT_ID=AMOUNT pairs.
func parseEntries(raw []string) ([]paymentservice.SettleEntry, error) {
	entries := make([]paymentservice.SettleEntry, 0, len(raw))
	for _, item := range raw {
		id, amount, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errBadEntry, item)
		}
		accountID, err := strconv.Atoi(strings.TrimSpace(id))
		if err != nil || accountID <= 0 {
			return nil, fmt.Errorf("%w: %q", errBadEntry, item)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadEntry, item)
		}
		entries = append(entries, paymentservice.SettleEntry{AccountID: accountID, Amount: value})
	}
	return entries, nil
}

func newRootCmd() *cobra.Command {
	var dsn string
	root := &cobra.Command{
		Use:           "farmctl",
		Short:         "Settlement and reporting for farmops",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&dsn, "database", "d", "", "database DSN, defaults to DATABASE_URI")

	root.AddCommand(
		newSettleCmd(&dsn),
		newQuotesCmd(&dsn),
		newHistoryCmd(&dsn),
		newDurationCmd(&dsn),
		newMigrateCmd(&dsn),
	)
	return root
}

func newSettleCmd(dsn *string) *cobra.Command {
	var (
		rate    string
		payTill string
		raw     []string
	)
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Record a payment batch",
		Example: "  farmctl settle --rate 41 --pay-till 2024-10-08 " +
			"--entry 12=4100 --entry 15=2050",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("bad rate: %w", err)
			}
			till, err := time.Parse(dateLayout, payTill)
			if err != nil {
				return fmt.Errorf("bad pay-till: %w", err)
			}
			entries, err := parseEntries(raw)
			if err != nil {
				return err
			}

			e, err := connect(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer e.close()

			results, err := e.services.PaymentService.Settle(cmd.Context(), entries, r, till, nil, time.Now())
			if err != nil {
				return err
			}
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					log.Error().Int("account", res.AccountID).Err(res.Err).Msg("not settled")
					continue
				}
				log.Info().Int("account", res.AccountID).
					Str("total_paid", res.TotalPaid.String()).
					Time("paid_till", res.PaidTill).
					Msg("settled")
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d entries failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rate, "rate", "", "UAH per USD")
	cmd.Flags().StringVar(&payTill, "pay-till", "", "paid-till date, YYYY-MM-DD")
	cmd.Flags().StringArrayVar(&raw, "entry", nil, "ACCOUNT_ID=AMOUNT in UAH, repeatable")
	_ = cmd.MarkFlagRequired("rate")
	_ = cmd.MarkFlagRequired("pay-till")
	_ = cmd.MarkFlagRequired("entry")
	return cmd
}

func newQuotesCmd(dsn *string) *cobra.Command {
	var (
		cutoff   string
		supplier int
	)
	cmd := &cobra.Command{
		Use:   "quotes",
		Short: "Show what every billable account owes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			at := now
			if cutoff != "" {
				parsed, err := time.Parse(dateLayout, cutoff)
				if err != nil {
					return fmt.Errorf("bad cutoff: %w", err)
				}
				at = parsed
			}
			var supplierID *int
			if supplier > 0 {
				supplierID = &supplier
			}

			e, err := connect(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer e.close()

			quotes, err := e.services.PaymentService.Quotes(cmd.Context(), at, supplierID, now)
			if err != nil {
				return err
			}
			for _, q := range quotes {
				log.Info().Int("account", q.AccountID).
					Int64("days", q.Days).
					Str("day_price", q.DayPrice.String()).
					Str("amount", q.Amount.String()).
					Time("paid_till", q.PaidTill).
					Msg("quote")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cutoff, "cutoff", "", "billing cutoff, YYYY-MM-DD, defaults to now")
	cmd.Flags().IntVar(&supplier, "supplier", 0, "only accounts of this supplier")
	return cmd
}

func newHistoryCmd(dsn *string) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Daily payment totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := time.Parse(dateLayout, from)
			if err != nil {
				return fmt.Errorf("bad from: %w", err)
			}
			end, err := time.Parse(dateLayout, to)
			if err != nil {
				return fmt.Errorf("bad to: %w", err)
			}

			e, err := connect(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer e.close()

			days, err := e.services.PaymentService.History(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			for _, d := range days {
				log.Info().Str("date", d.Date.Format(dateLayout)).
					Str("usd", d.AmountUSD.String()).
					Str("uah", d.AmountUAH.String()).
					Int("accounts", d.Accounts).
					Msg("paid")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDurationCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "duration ACCOUNT_ID",
		Short: "How long the account has been in its current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			accountID, err := strconv.Atoi(args[0])
			if err != nil || accountID <= 0 {
				return fmt.Errorf("bad account id %q", args[0])
			}

			e, err := connect(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer e.close()

			info, err := e.services.AccountService.GetStatusInfo(cmd.Context(), accountID, nil, time.Now())
			if err != nil {
				return err
			}
			ev := log.Info().Int("account", accountID).
				Str("status", string(info.Account.Status)).
				Dur("duration", info.Duration)
			if info.PreviousStatus != "" {
				ev = ev.Str("previous", string(info.PreviousStatus))
			}
			ev.Msg("status")
			return nil
		},
	}
}

func newMigrateCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, pool, err := openPool(cmd.Context(), *dsn)
			if err != nil {
				return err
			}
			defer pool.Close()

			version, err := pg.RunMigrations(cmd.Context(), pool)
			if err != nil {
				return err
			}
			log.Info().Int64("version", version).Msg("migrated")
			return nil
		},
	}
}
