package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nrchamb/QBDTestTool/internal/cleanup"
	"github.com/nrchamb/QBDTestTool/internal/config"
	"github.com/nrchamb/QBDTestTool/internal/gateway/bridge"
	qbdHttp "github.com/nrchamb/QBDTestTool/internal/http"
	maintenanceHandler "github.com/nrchamb/QBDTestTool/internal/http/maintenance"
	monitorHandler "github.com/nrchamb/QBDTestTool/internal/http/monitor"
	sessionHandler "github.com/nrchamb/QBDTestTool/internal/http/session"
	stateHandler "github.com/nrchamb/QBDTestTool/internal/http/state"
	verifyHandler "github.com/nrchamb/QBDTestTool/internal/http/verify"
	"github.com/nrchamb/QBDTestTool/internal/monitor"
	"github.com/nrchamb/QBDTestTool/internal/session"
	"github.com/nrchamb/QBDTestTool/internal/state"
	"github.com/nrchamb/QBDTestTool/internal/verify"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sessionPath, err := cfg.SessionPath()
	if err != nil {
		slog.Error("failed to resolve session path", "error", err)
		os.Exit(1)
	}

	var (
		store    = state.NewStore(state.AppState{ExpectedDepositAccount: cfg.Monitor.ExpectedDepositAccount})
		sessions = session.NewManager(sessionPath)
		gw       = bridge.New(cfg.Bridge.URL, cfg.Bridge.Token, cfg.Bridge.Timeout)
		detector = verify.New(gw)
	)

	if cfg.Session.AutoLoad {
		snapshot, err := sessions.Load()
		switch {
		case errors.Is(err, session.ErrNoSession):
			slog.Info("no previous session to restore")
		case err != nil:
			slog.Error("failed to load session", "error", err)
		default:
			sessions.Restore(store, snapshot)
			slog.Info("session restored",
				"customers", len(snapshot.Customers),
				"invoices", len(snapshot.Invoices),
				"sales_receipts", len(snapshot.SalesReceipts),
				"statement_charges", len(snapshot.StatementCharges))
		}
	}

	var (
		cleanupService = cleanup.NewService(store, gw, sessions)
		monitorService = monitor.NewService(store, detector, sessions)
	)

	router := qbdHttp.New(
		stateHandler.NewHandler(store),
		sessionHandler.NewHandler(store, sessions),
		verifyHandler.NewHandler(store, detector, gw),
		maintenanceHandler.NewHandler(cleanupService),
		monitorHandler.NewHandler(store, monitorService),
	)

	addr := cfg.ListenAddr()
	slog.Info("starting server", "addr", addr, "session_path", sessionPath, "bridge_url", cfg.Bridge.URL)

	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
