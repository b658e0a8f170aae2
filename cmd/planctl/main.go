// planctl is an admin CLI for the health planner API. It talks to a
// running server over HTTP and covers the day-to-day plan management
// tasks: browsing the plan library, inspecting a plan, generating a new
// one and retiring old ones.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Manage workout plans on a health planner server.",
	Long: `planctl is an administrative CLI for the health planner API.
It lists, inspects, generates and deactivates workout plans by calling
the server's REST endpoints.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discoverable workout plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		planType, _ := cmd.Flags().GetString("type")
		limit, _ := cmd.Flags().GetInt("limit")

		params := []string{fmt.Sprintf("limit=%d", limit)}
		if category != "" {
			params = append(params, "category="+category)
		}
		if difficulty != "" {
			params = append(params, "difficulty="+difficulty)
		}
		if planType != "" {
			params = append(params, "plan_type="+planType)
		}

		data, err := apiGet("/api/v1/plans/discover?" + strings.Join(params, "&"))
		if err != nil {
			return err
		}

		var payload struct {
			Plans map[string]struct {
				Overview string `json:"overview"`
				Source   string `json:"source"`
				Metadata struct {
					Category   string `json:"category"`
					Difficulty string `json:"difficulty"`
				} `json:"metadata"`
			} `json:"plans"`
			TotalPlans int `json:"total_plans"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decoding discover response: %w", err)
		}

		fmt.Printf("%d plan(s):\n", payload.TotalPlans)
		for id, plan := range payload.Plans {
			fmt.Printf("  %-40s source=%-8s category=%-15s difficulty=%s\n",
				id, plan.Source, plan.Metadata.Category, plan.Metadata.Difficulty)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <plan_id>",
	Short: "Print a single plan as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := apiGet("/api/v1/plans/" + args[0])
		if err != nil {
			return err
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			return fmt.Errorf("formatting plan: %w", err)
		}
		fmt.Println(pretty.String())
		return nil
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <population> <goal> [goal...]",
	Short: "Generate a new plan through the agent pipeline",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		constraints, _ := cmd.Flags().GetStringSlice("constraints")
		timeline, _ := cmd.Flags().GetString("timeline")
		fitnessLevel, _ := cmd.Flags().GetString("fitness-level")

		body := map[string]any{
			"population":    args[0],
			"goals":         args[1:],
			"constraints":   constraints,
			"timeline":      timeline,
			"fitness_level": fitnessLevel,
		}

		fmt.Fprintln(os.Stderr, "Generating plan (this runs the full agent pipeline and can take a minute)...")
		data, err := apiPost("/api/v1/plans/generate", body)
		if err != nil {
			return err
		}

		var payload struct {
			PlanID string `json:"plan_id"`
			Stored bool   `json:"stored"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("decoding generate response: %w", err)
		}
		fmt.Printf("Generated plan %q (stored=%v)\n", payload.PlanID, payload.Stored)
		return nil
	},
}

var deactivateCmd = &cobra.Command{
	Use:   "deactivate <plan_id>",
	Short: "Soft-delete a plan so it no longer appears in discovery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = os.Getenv("PLANCTL_TOKEN")
		}
		if token == "" {
			return fmt.Errorf("deactivation requires a JWT: pass --token or set PLANCTL_TOKEN")
		}

		req, err := http.NewRequest(http.MethodDelete, baseURL+"/api/v1/plans/"+args[0], nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		if _, err := doRequest(req); err != nil {
			return err
		}
		fmt.Printf("Plan %q deactivated.\n", args[0])
		return nil
	},
}

// apiGet fetches an envelope endpoint and returns the inner data payload.
func apiGet(path string) (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return doRequest(req)
}

func apiPost(path string, body any) (json.RawMessage, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return doRequest(req)
}

func doRequest(req *http.Request) (json.RawMessage, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Detail string `json:"detail"`
			Error  string `json:"error"`
		}
		if err := json.Unmarshal(raw, &apiErr); err == nil {
			if apiErr.Detail != "" {
				return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Detail)
			}
			if apiErr.Error != "" {
				return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
			}
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("request failed: %s", envelope.Message)
	}
	return envelope.Data, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8080", "base URL of the health planner server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "HTTP request timeout")

	listCmd.Flags().String("category", "", "filter plans by category")
	listCmd.Flags().String("difficulty", "", "filter plans by difficulty")
	listCmd.Flags().String("type", "", "filter plans by metadata type (ai_generated, default)")
	listCmd.Flags().Int("limit", 20, "maximum number of plans to list")

	generateCmd.Flags().StringSlice("constraints", nil, "health constraints to account for (repeatable)")
	generateCmd.Flags().String("timeline", "12_weeks", "plan timeline")
	generateCmd.Flags().String("fitness-level", "beginner", "fitness level the plan targets")

	deactivateCmd.Flags().String("token", "", "JWT for authenticated endpoints (defaults to PLANCTL_TOKEN)")

	rootCmd.AddCommand(listCmd, getCmd, generateCmd, deactivateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
