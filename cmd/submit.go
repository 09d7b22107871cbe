package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
)

// SubmitCommand submits a build request to a remote build service and,
// optionally, polls its status until it reaches a terminal state.
var SubmitCommand = &cli.Command{
	Name:      "submit",
	Usage:     "Submit an index build request to a remote build service",
	ArgsUsage: "<request-file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "api-url",
			Aliases: []string{"u"},
			Usage:   "Build service URL (e.g., http://localhost:6080)",
			EnvVars: []string{"BUILD_API_URL"},
		},
		&cli.BoolFlag{
			Name:    "wait",
			Aliases: []string{"w"},
			Usage:   "Wait for the build to reach a terminal state and show the final status",
		},
		&cli.IntFlag{
			Name:  "poll-interval",
			Value: 5,
			Usage: "Polling interval in seconds when using --wait",
		},
	},
	Action: submitAction,
}

// buildResponse is the /_build 200 response shape.
type buildResponse struct {
	JobID string `json:"job_id"`
}

// statusResponse is the /_status/{job_id} 200 response shape.
type statusResponse struct {
	TaskStatus   string  `json:"task_status"`
	FileName     *string `json:"file_name,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

func submitAction(ctx *cli.Context) error {
	if ctx.NArg() < 1 {
		return fmt.Errorf("usage: submit <request-file>")
	}

	requestFile := ctx.Args().Get(0)
	apiURL := strings.TrimSuffix(ctx.String("api-url"), "/")
	wait := ctx.Bool("wait")
	pollInterval := ctx.Int("poll-interval")

	if apiURL == "" {
		return fmt.Errorf("build service URL is required (use --api-url or BUILD_API_URL)")
	}

	body, err := os.ReadFile(requestFile)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	resp, err := submitBuild(apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to submit build: %w", err)
	}

	fmt.Println("Build submitted successfully!")
	fmt.Printf("  Job ID: %s\n", resp.JobID)

	if !wait {
		return nil
	}

	fmt.Println("\nWaiting for completion...")
	startTime := time.Now()

	final, err := waitForBuildCompletion(apiURL, resp.JobID, pollInterval)
	if err != nil {
		return fmt.Errorf("failed while waiting for build: %w", err)
	}

	elapsed := time.Since(startTime).Round(time.Second)
	fmt.Println()
	switch final.TaskStatus {
	case "COMPLETED_INDEX_BUILD":
		fmt.Println("Build completed!")
		if final.FileName != nil {
			fmt.Printf("  Artifact: %s\n", *final.FileName)
		}
	case "FAILED_INDEX_BUILD":
		fmt.Println("Build failed!")
		if final.ErrorMessage != nil {
			fmt.Printf("  Error: %s\n", *final.ErrorMessage)
		}
	default:
		fmt.Printf("Build ended with status: %s\n", final.TaskStatus)
	}
	fmt.Printf("  Duration: %s\n", elapsed)

	if final.TaskStatus != "COMPLETED_INDEX_BUILD" {
		return cli.Exit("", 1)
	}
	return nil
}

func submitBuild(apiURL string, body []byte) (*buildResponse, error) {
	httpReq, err := http.NewRequest(http.MethodPost, apiURL+"/_build", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("build service error (%d): %s", resp.StatusCode, string(respBody))
	}

	var out buildResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

func waitForBuildCompletion(apiURL, jobID string, pollInterval int) (*statusResponse, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	lastStatus := ""

	for {
		resp, err := client.Get(apiURL + "/_status/" + jobID)
		if err != nil {
			return nil, fmt.Errorf("failed to get build status: %w", err)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("build service error (%d): %s", resp.StatusCode, string(body))
		}

		var status statusResponse
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}

		if status.TaskStatus != lastStatus {
			fmt.Fprintf(os.Stderr, "  Status: %s\n", status.TaskStatus)
			lastStatus = status.TaskStatus
		}

		switch status.TaskStatus {
		case "COMPLETED_INDEX_BUILD", "FAILED_INDEX_BUILD":
			return &status, nil
		}

		time.Sleep(time.Duration(pollInterval) * time.Second)
	}
}
