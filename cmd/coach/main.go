package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/billyrestey/golfstrategy/internal/client/api"
	"github.com/billyrestey/golfstrategy/internal/client/kv"
	"github.com/billyrestey/golfstrategy/internal/client/paywall"
	"github.com/billyrestey/golfstrategy/internal/client/pending"
	"github.com/billyrestey/golfstrategy/internal/client/session"
	"github.com/billyrestey/golfstrategy/internal/client/unlock"
	"github.com/billyrestey/golfstrategy/internal/domain"
	"github.com/billyrestey/golfstrategy/internal/infra"
)

// The analysis flow is paid: previews are free, saving an analysis spends a
// credit or needs a pro subscription.
const requirePayment = true

func main() {
	_ = godotenv.Load()

	var (
		baseURL   string
		statePath string
	)
	flag.StringVar(&baseURL, "api", envOr("COACH_API_URL", "http://localhost:8080"), "backend base URL")
	flag.StringVar(&statePath, "state", defaultStatePath(), "path to the local state file")
	flag.Parse()

	logger := infra.NewLogger(envOr("APP_ENV", "development")).With().Str("cmd", "coach").Logger()

	store, err := kv.NewFileStore(statePath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", statePath).Msg("cannot open state file")
	}
	client, err := api.NewClient(api.Options{BaseURL: baseURL})
	if err != nil {
		logger.Fatal().Err(err).Msg("bad api base url")
	}

	holder := pending.NewHolder(store)
	sess := session.NewStore(client, store, holder)

	ctx := context.Background()
	if err := sess.Resume(ctx); err != nil {
		logger.Warn().Err(err).Msg("could not resume session, starting anonymous")
	}

	app := &coachApp{
		in:      bufio.NewScanner(os.Stdin),
		client:  client,
		session: sess,
		holder:  holder,
	}
	orchestrator := unlock.New(unlock.Options{
		Session:        sess,
		Holder:         holder,
		Committer:      client,
		RequirePayment: requirePayment,
		Logger:         logger,
		OnUnlocked: func(res api.CommitResult) {
			fmt.Printf("\nAnalysis saved (%s). Credits remaining: %d\n", res.AnalysisID, res.RemainingCredits)
		},
	})
	app.unlock = orchestrator
	orchestrator.Start()

	app.run(ctx)
}

type coachApp struct {
	in      *bufio.Scanner
	client  *api.Client
	session *session.Store
	holder  *pending.Holder
	unlock  *unlock.Orchestrator
}

func (a *coachApp) run(ctx context.Context) {
	snap := a.session.Snapshot()
	if snap.Authenticated {
		fmt.Printf("Welcome back, %s (tier %s, %d credits).\n", snap.Name, snap.Tier, snap.Credits)
	}

	// A pending analysis from a previous run (for example an interrupted
	// payment redirect) is picked up before starting a new one.
	if _, ok := a.holder.Restore(); ok {
		fmt.Println("You have an unsaved analysis from a previous session.")
		a.gateLoop(ctx)
		return
	}

	card, ok := a.collectScorecard()
	if !ok {
		return
	}

	fmt.Println("\nGenerating your practice plan...")
	preview, err := a.client.Preview(ctx, card)
	if err != nil {
		fmt.Println("Could not generate a strategy:", err)
		return
	}

	payload, err := json.Marshal(preview.Strategy)
	if err != nil {
		fmt.Println("Bad strategy payload:", err)
		return
	}
	snapshotJSON, _ := json.Marshal(card)
	if err := a.holder.Store(payload, snapshotJSON); err != nil {
		fmt.Println("Warning: could not persist the preview locally:", err)
	}

	a.showTeaser(preview.Strategy)
	a.gateLoop(ctx)
}

func (a *coachApp) collectScorecard() (domain.Scorecard, bool) {
	w := newWizard(scorecardSteps())
	fmt.Println("Enter your round. Type 'back' to revisit the previous step, 'quit' to exit.")
	for !w.done() {
		s := w.step()
		fmt.Printf("%s: ", s.prompt)
		if !a.in.Scan() {
			return domain.Scorecard{}, false
		}
		input := strings.TrimSpace(a.in.Text())
		switch strings.ToLower(input) {
		case "quit":
			return domain.Scorecard{}, false
		case "back":
			w.back()
			continue
		}
		if err := w.submit(input); err != nil {
			fmt.Println("  ", err)
		}
	}
	return w.scorecard(), true
}

func (a *coachApp) showTeaser(strategy *domain.Strategy) {
	fmt.Println("\n--- Your coach's read ---")
	if strategy.Teaser != "" {
		fmt.Println(strategy.Teaser)
	} else {
		fmt.Println(strategy.Summary)
	}
	fmt.Println("-------------------------")
}

// gateLoop drives the paywall until the analysis is committed or the user
// walks away from a flow that allows it.
func (a *coachApp) gateLoop(ctx context.Context) {
	for {
		if _, ok := a.holder.Restore(); !ok {
			a.showFullStrategy()
			return
		}
		decision := paywall.Decide(a.session.Snapshot(), requirePayment)
		if decision == paywall.Granted {
			if err := a.unlock.Signal(ctx); err != nil {
				fmt.Println("Saving failed, your analysis is kept locally:", err)
				if !a.menu(ctx, decision) {
					return
				}
			}
			continue
		}

		switch decision {
		case paywall.Denied:
			fmt.Println("\nLog in or create an account to unlock the full analysis.")
		case paywall.PreviewOnly:
			fmt.Println("\nYou are out of analysis credits. Buy credits, go pro, or redeem a code.")
		}
		if !a.menu(ctx, decision) {
			return
		}
	}
}

func (a *coachApp) menu(ctx context.Context, decision paywall.Decision) bool {
	fmt.Println("[l]ogin  [r]egister  [g]hin register  [c]ode  [b]uy  [p]refresh profile  [q]uit")
	fmt.Print("> ")
	if !a.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(a.in.Text())) {
	case "l":
		email, password := a.creds()
		if err := a.session.Login(ctx, email, password); err != nil {
			fmt.Println("Login failed:", err)
		}
	case "r":
		email, password := a.creds()
		name := a.prompt("Name")
		if err := a.session.Register(ctx, email, password, name); err != nil {
			fmt.Println("Registration failed:", err)
		}
	case "g":
		email, password := a.creds()
		name := a.prompt("Name")
		ghinNumber := a.prompt("GHIN number")
		profile, err := a.session.RegisterWithGHIN(ctx, email, password, name, ghinNumber)
		if err != nil {
			fmt.Println("Registration failed:", err)
		} else if profile != nil {
			fmt.Printf("Handicap index on file: %.1f\n", profile.HandicapIndex)
		}
	case "c":
		code := a.prompt("Trial code")
		res, err := a.client.ActivateCode(ctx, code)
		if err != nil {
			fmt.Println("Could not redeem the code:", err)
		} else {
			fmt.Printf("Granted %d credits.\n", res.CreditsGranted)
			a.session.UpdateCredits(res.RemainingCredits)
		}
	case "b":
		plan := a.prompt("Plan (pro_monthly, credits_1, credits_5)")
		res, err := a.client.CreateCheckout(ctx, plan)
		if err != nil {
			fmt.Println("Could not start checkout:", err)
			break
		}
		fmt.Println("Complete your payment at:", res.CheckoutURL)
		fmt.Println("Press enter once you are done.")
		a.in.Scan()
		if err := a.session.RefreshProfile(ctx); err != nil {
			fmt.Println("Could not refresh your profile:", err)
		}
	case "p":
		if err := a.session.RefreshProfile(ctx); err != nil {
			fmt.Println("Could not refresh your profile:", err)
		}
	case "q":
		// A gated flow cannot be dismissed; quitting only works once the
		// analysis is unlocked or the flow is free.
		if !paywall.CloseAllowed(requirePayment, decision) {
			fmt.Println("This analysis is not unlocked yet. Unlock it or keep going; your preview is saved.")
			return true
		}
		return false
	}
	return true
}

func (a *coachApp) showFullStrategy() {
	// The committed strategy is the latest item in the account's history.
	fmt.Println("Your full practice plan is saved to your account.")
}

func (a *coachApp) creds() (string, string) {
	return a.prompt("Email"), a.prompt("Password")
}

func (a *coachApp) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !a.in.Scan() {
		return ""
	}
	return strings.TrimSpace(a.in.Text())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".golfcoach.json"
	}
	return filepath.Join(home, ".golfcoach.json")
}
