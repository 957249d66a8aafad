package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/paoloacx/wattlet/internal/auth"
	"github.com/paoloacx/wattlet/internal/config"
	"github.com/paoloacx/wattlet/internal/curve"
	"github.com/paoloacx/wattlet/internal/export"
	"github.com/paoloacx/wattlet/internal/fitfile"
	"github.com/paoloacx/wattlet/internal/service"
	"github.com/paoloacx/wattlet/internal/store"
	"github.com/paoloacx/wattlet/internal/strava"
	"github.com/paoloacx/wattlet/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "wattlet",
		Short:         "Cycling power curve analysis for Strava rides",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context())
		},
	}

	root.AddCommand(newRefreshCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newRankCmd())
	root.AddCommand(newThresholdsCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newLogoutCmd())
	return root
}

// app bundles the wired dependencies behind every command.
type app struct {
	cfg    *config.Config
	store  *store.Store
	client *strava.Client // nil without a stored credential
	svc    *service.Service
}

func (a *app) Close() {
	a.store.Close()
}

// setup loads config, opens the store and wires the Strava client. With
// requireAuth the OAuth flow runs when no credential is stored; without
// it the app comes up offline and serves whatever the caches hold.
func setup(ctx context.Context, requireAuth bool) (*app, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return nil, fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Strava API credentials.")
		fmt.Println("Get them from: https://www.strava.com/settings/api")
		return nil, errors.New("config required")
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil, errors.New("config invalid")
	}

	st, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	a := &app{cfg: cfg, store: st}

	storedAuth, err := st.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		if !requireAuth {
			a.svc = service.New(offlineClient{}, st)
			return a, nil
		}
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, a); err != nil {
			st.Close()
			return nil, fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = st.GetAuth()
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		st.Close()
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	oauthCfg := newOAuthConfig(cfg)
	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return st.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	if _, err := tokenSource.Token(); err != nil && requireAuth {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, a); err != nil {
			st.Close()
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
	}

	a.client = strava.NewClient(tokenSource)
	a.svc = service.New(a.client, st)
	return a, nil
}

func newOAuthConfig(cfg *config.Config) *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Strava.ClientID,
		ClientSecret: cfg.Strava.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})
}

func authenticate(ctx context.Context, a *app) error {
	result, err := auth.Authenticate(ctx, newOAuthConfig(a.cfg))
	if err != nil {
		return err
	}

	storedAuth := &store.Auth{
		AthleteID:    result.AthleteID,
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}
	if err := a.store.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as athlete %d!\n", result.AthleteID)

	seedAthleteFTP(ctx, a, result.Token)
	return nil
}

// seedAthleteFTP pulls the FTP from the athlete's Strava profile on first
// login and writes it into the local config. Best effort only.
func seedAthleteFTP(ctx context.Context, a *app, token *oauth2.Token) {
	client := strava.NewClient(oauth2.StaticTokenSource(token))
	ftp, err := client.GetAthleteFTP(ctx)
	if err != nil || ftp <= 0 {
		return
	}
	a.cfg.Athlete.FTP = ftp
	if err := config.Save(a.cfg); err == nil {
		fmt.Printf("Seeded FTP from your Strava profile: %dW\n", ftp)
	}
}

// offlineClient fails every network call; the store-backed reads still
// work, which is all the offline commands need.
type offlineClient struct{}

var errNotAuthenticated = errors.New("not authenticated - run wattlet to connect to Strava")

func (offlineClient) ListActivities(context.Context, time.Time, int, int) ([]strava.Activity, error) {
	return nil, errNotAuthenticated
}

func (offlineClient) GetActivityStreams(context.Context, int64) (*strava.Streams, error) {
	return nil, errNotAuthenticated
}

func runTUI(ctx context.Context) error {
	a, err := setup(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	p := tea.NewProgram(tui.NewApp(a.svc, a.client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rebuild the 12-week power curve from Strava",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.svc.RefreshPowerCurve(cmd.Context(), func(msg string) {
				fmt.Println(msg)
			})
			if err != nil {
				return err
			}

			printSnapshot(snap, nil)
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Build the year-long ranking population",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			if reset {
				if err := a.svc.ResetYearHistory(); err != nil {
					return fmt.Errorf("clearing year history: %w", err)
				}
				fmt.Println("Year history cleared.")
			}

			records, err := a.svc.LoadYearHistory(cmd.Context(), func(msg string) {
				fmt.Println(msg)
			})
			if err != nil {
				return err
			}

			fmt.Printf("Year history holds %d effort records.\n", len(records))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear the cached population and rebuild from scratch")
	return cmd
}

func newRankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rank <duration> <watts>",
		Short: "Rank a watt value against the year history (e.g. rank 5m 320)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, ok := curve.SecondsFor(args[0])
			if !ok {
				return fmt.Errorf("unknown duration %q (use 5s, 10s, 30s, 1m ... 6h)", args[0])
			}
			var watts int
			if _, err := fmt.Sscanf(args[1], "%d", &watts); err != nil || watts <= 0 {
				return fmt.Errorf("invalid watts %q", args[1])
			}

			a, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			rank, ok, err := a.svc.HistoricalRank(seconds, watts)
			if errors.Is(err, service.ErrNoHistory) {
				return errors.New("year history not loaded - run 'wattlet history' first")
			}
			if err != nil {
				return err
			}
			if !ok {
				fmt.Printf("No %s efforts in the last year to rank against.\n", args[0])
				return nil
			}

			fmt.Printf("%dW for %s ranks %d of %d over the last year.\n",
				watts, args[0], rank.Position, rank.PopulationSize)
			if rank.Position == 1 && rank.ImprovementPct > 0 {
				fmt.Printf("That beats your previous best by %.1f%%.\n", rank.ImprovementPct)
			}
			return nil
		},
	}
}

func newThresholdsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Estimate FTP, VT1 and VT2 from the 12-week curve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			limits, ok, err := a.svc.Thresholds(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("not enough power data - refresh the curve first")
			}

			printThresholds(limits)
			return nil
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file.fit>",
		Short: "Extract best efforts from a local FIT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ride, err := fitfile.DecodeFile(args[0])
			if err != nil {
				return err
			}

			efforts := curve.ExtractBestEfforts(ride.Watts, ride.Heartrate)
			snap := curve.NewSnapshot(ride.StartTime)
			snap.Merge(efforts, ride.StartTime, args[0])

			if !snap.HasData() {
				return errors.New("no power samples in this file")
			}

			fmt.Printf("%s  %s  %.1f km  %d kcal\n\n",
				ride.StartTime.Format("2006-01-02"), ride.Sport,
				ride.DistanceMeters/1000, ride.Calories)

			// Ranks are optional; skip silently when history is absent.
			var ranks map[int]curve.Rank
			if a, err := setup(cmd.Context(), false); err == nil {
				ranks, _ = a.svc.SnapshotRanks(snap)
				a.Close()
			}

			printSnapshot(snap, ranks)
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.parquet>",
		Short: "Export the year-history population to a parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.svc.YearHistory()
			if errors.Is(err, store.ErrCacheMiss) {
				return errors.New("year history not loaded - run 'wattlet history' first")
			}
			if err != nil {
				return err
			}

			if err := export.WriteHistory(args[0], records); err != nil {
				return err
			}
			fmt.Printf("Wrote %d records to %s\n", len(records), args[0])
			return nil
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored Strava credential",
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := store.Open()
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer st.Close()

			if err := st.DeleteAuth(); err != nil {
				return fmt.Errorf("deleting credential: %w", err)
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func printSnapshot(snap *curve.Snapshot, ranks map[int]curve.Rank) {
	fmt.Printf("%-5s  %6s  %5s  %-10s  %s\n", "Dur", "Watts", "HR", "Date", "Activity")
	for _, e := range snap.Efforts {
		if e.Watts == 0 {
			continue
		}
		hr := "-"
		if e.Heartrate > 0 {
			hr = fmt.Sprintf("%d", e.Heartrate)
		}
		line := fmt.Sprintf("%-5s  %5dW  %5s  %-10s  %s",
			e.Label, e.Watts, hr, e.Date.Format("2006-01-02"), e.ActivityName)
		if r, ok := ranks[e.DurationSeconds]; ok {
			line += fmt.Sprintf("  (#%d of %d)", r.Position, r.PopulationSize)
		}
		fmt.Println(line)
	}
}

func printThresholds(limits curve.Thresholds) {
	printRow := func(name string, watts, hr int) {
		if hr > 0 {
			fmt.Printf("%-4s  %4dW  @ %d bpm\n", name, watts, hr)
		} else {
			fmt.Printf("%-4s  %4dW\n", name, watts)
		}
	}
	printRow("FTP", limits.FTP, limits.FTPHeartrate)
	printRow("VT1", limits.VT1Power, limits.VT1Heartrate)
	printRow("VT2", limits.VT2Power, limits.VT2Heartrate)
}
