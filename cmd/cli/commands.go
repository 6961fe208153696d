package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

var (
	phone      string
	discipline string
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(enrollCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(adjustCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(metricsCmd)

	registerCmd.Flags().StringVar(&phone, "phone", "", "The new player's phone number")
	enrollCmd.Flags().StringVar(&phone, "phone", "", "Your phone number")
	reportCmd.Flags().StringVar(&phone, "phone", "", "The reporter's phone number")
	reportCmd.Flags().StringVar(&discipline, "discipline", "", "The game type (Normal or 14.1)")
	undoCmd.Flags().StringVar(&phone, "phone", "", "The requester's phone number")
	adjustCmd.Flags().StringVar(&phone, "phone", "", "The admin's phone number")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <name>",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := url.Values{}
		form.Set("name", args[0])
		form.Set("phone", phone)
		return performPostRequest("/players/register", form)
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the rating leaderboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/ratings")
	},
}

var enrollCmd = &cobra.Command{
	Use:   "enroll",
	Short: "Opt a player into the rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		form := url.Values{}
		form.Set("phone", phone)
		return performPostRequest("/ratings/enroll", form)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <player-a> <player-b> <score-a> <score-b>",
	Short: "Report a finished game",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := url.Values{}
		form.Set("player_a", args[0])
		form.Set("player_b", args[1])
		form.Set("score_a", args[2])
		form.Set("score_b", args[3])
		form.Set("discipline", discipline)
		form.Set("phone", phone)
		return performPostRequest("/matches/report", form)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo <match-id>",
	Short: "Undo a recorded game and restore the ratings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := url.Values{}
		form.Set("match_id", args[0])
		form.Set("phone", phone)
		return performPostRequest("/matches/undo", form)
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust <name> <rating> <won> <lost>",
	Short: "Overwrite a player's rating (admin only)",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		form := url.Values{}
		form.Set("name", args[0])
		form.Set("rating", args[1])
		form.Set("won", args[2])
		form.Set("lost", args[3])
		form.Set("phone", phone)
		return performPostRequest("/ratings/adjust", form)
	},
}

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Run a rating decay pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/decay", url.Values{})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a snapshot of all ratings and matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/export")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, form url.Values) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
