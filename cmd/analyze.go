package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"
)

const analyzeSystemPrompt = `You are an analyst for a competitive RTS ladder. You are given structured
data computed by a ranking engine and a question from a reader.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise.

Metrics glossary:
- Adjusted score: (wins - losses) / (total games + CF) x 10000. The CF
  (confidence factor) damps small sample sizes.
- k: half the average games per nation in a mode; CF = 2k; nations with
  fewer than k/4 games are unranked.
- Net wins: wins minus losses for one player.
- Stability: share of a party's matches played with an unchanged roster.
- Synergy: a pair's joint win rate divided by the mean of their solo win
  rates; above 1.0 they win more together.
- Density: actual edges over possible edges inside a community cluster.`

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeMode   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "AI-powered grounded analysis (requires ANTHROPIC_API_KEY)",
}

var analyzeNationCmd = &cobra.Command{
	Use:   "nation <country-code> <question>",
	Short: "Analyze a nation's ranking with AI",
	Args:  cobra.ExactArgs(2),
	RunE:  runAnalyzeNation,
}

var analyzeTeamsCmd = &cobra.Command{
	Use:   "teams <question>",
	Short: "Analyze detected teams and pairs with AI",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyzeTeams,
}

func init() {
	analyzeCmd.PersistentFlags().StringVar(&analyzeModel, "model", "claude-haiku-4-5-20251001", "Anthropic model to use")
	analyzeCmd.PersistentFlags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")

	analyzeNationCmd.Flags().StringVar(&analyzeMode, "mode", "", "game mode (required)")
	analyzeNationCmd.MarkFlagRequired("mode")

	analyzeCmd.AddCommand(analyzeNationCmd)
	analyzeCmd.AddCommand(analyzeTeamsCmd)
}

func runAnalyzeNation(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	country := strings.ToUpper(args[0])
	question := args[1]

	bd, err := engine.ExplainNationScore(country, analyzeMode)
	if err != nil {
		return err
	}
	lb, err := engine.BuildNationLeaderboard(analyzeMode)
	if err != nil {
		return err
	}

	doc := map[string]interface{}{
		"subject":   "nation",
		"breakdown": bd,
		"leaderboard_context": map[string]interface{}{
			"k":       lb.K,
			"cf":      lb.CF,
			"nations": len(lb.Nations),
			"top5":    head(lb.Nations, 5),
		},
	}
	contextJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, string(contextJSON), question)
}

func runAnalyzeTeams(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine()
	if err != nil {
		return err
	}
	question := args[0]

	doc := map[string]interface{}{
		"subject":     "teams",
		"parties":     head(engine.PartyTeams(), 20),
		"communities": head(engine.Communities(), 20),
		"pairs":       head(engine.FrequentPairs(), 20),
	}
	contextJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), analyzeAPIKey, analyzeModel, string(contextJSON), question)
}

// head keeps context payloads small for the model.
func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed — check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
