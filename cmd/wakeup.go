package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mfgkeeper/manufacturer-maintenance/pkg/logger"
	"github.com/spf13/cobra"
)

var wakeupCmd = &cobra.Command{
	Use:   "wakeup",
	Short: "Ping a deployed instance to keep it awake",
	Long:  `Drive the /wakeup endpoint of a deployed instance on an interval, from a machine that stays on. Free hosting tiers suspend idle apps; this keeps one warm when the instance cannot reach itself.`,
	Run: func(cmd *cobra.Command, args []string) {
		startWakeupPinger()
	},
}

var (
	wakeupTarget  string
	wakeupPingKey string
	wakeupEvery   time.Duration
	wakeupOnce    bool
)

func startWakeupPinger() {
	if wakeupTarget == "" {
		fmt.Fprintln(os.Stderr, "wakeup: --url is required")
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()
	client := &http.Client{Timeout: 30 * time.Second}

	ping := func() {
		endpoint := strings.TrimRight(wakeupTarget, "/") + "/wakeup"
		if wakeupPingKey != "" {
			endpoint += "?key=" + url.QueryEscape(wakeupPingKey)
		}

		resp, err := client.Get(endpoint)
		if err != nil {
			lg.Error("wakeup ping failed", "url", wakeupTarget, "error", err)
			return
		}
		defer resp.Body.Close()

		var reply struct {
			Status     string `json:"status"`
			Message    string `json:"message"`
			NextWakeup string `json:"next_wakeup"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&reply); err != nil {
			lg.Warn("wakeup reply unreadable", "status_code", resp.StatusCode, "error", err)
			return
		}
		if resp.StatusCode != http.StatusOK {
			lg.Warn("wakeup rejected", "status_code", resp.StatusCode, "message", reply.Message)
			return
		}
		lg.Info("wakeup ok", "message", reply.Message, "next_wakeup", reply.NextWakeup)
	}

	ping()
	if wakeupOnce {
		return
	}

	lg.Info("wakeup pinger running", "url", wakeupTarget, "interval", wakeupEvery)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(wakeupEvery)
	defer ticker.Stop()

	for {
		select {
		case sig := <-sigChan:
			lg.Info("received signal, stopping wakeup pinger", "signal", sig)
			return
		case <-ticker.C:
			ping()
		}
	}
}

func init() {
	wakeupCmd.Flags().StringVar(&wakeupTarget, "url", "", "Base URL of the deployed instance (required)")
	wakeupCmd.Flags().StringVar(&wakeupPingKey, "key", "", "Wakeup key when the instance requires one")
	wakeupCmd.Flags().DurationVar(&wakeupEvery, "interval", 10*time.Minute, "Time between pings")
	wakeupCmd.Flags().BoolVar(&wakeupOnce, "once", false, "Ping once and exit")

	rootCmd.AddCommand(wakeupCmd)
}
