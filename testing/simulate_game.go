package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/tatianab/pirate-latitudes/internal/config"
	"github.com/tatianab/pirate-latitudes/internal/dice"
	"github.com/tatianab/pirate-latitudes/internal/engine"
	"github.com/tatianab/pirate-latitudes/internal/models"
	"github.com/tatianab/pirate-latitudes/internal/observability"
)

const maxTurns = 40

// route wins the game when every roll comes up 20.
var route = []string{
	"board", "search", "talk", "1",
	"sail", "fight", "board", "search", "village", "search",
	"fight", "fight", "unlock", "search",
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	world, err := engine.DefaultWorld()
	if err != nil {
		log.Fatalf("Failed to load scenes: %v", err)
	}

	// Without an API key the simulation walks the scripted route with loaded dice.
	var next func(st *models.GameState, turn int, last engine.Result) string
	opts := []engine.Option{engine.WithLogger(logger)}

	if cfg.Gemini.APIKey != "" {
		playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.Gemini.APIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer playerClient.Close()
		playerModel := playerClient.GenerativeModel(cfg.Gemini.Model)
		next = func(st *models.GameState, _ int, last engine.Result) string {
			return getPlayerAction(ctx, playerModel, world, st, last)
		}
	} else {
		opts = append(opts, engine.WithDiceSource(&dice.FixedSource{Faces: []int{20}}))
		next = func(_ *models.GameState, turn int, _ engine.Result) string {
			if turn > len(route) {
				return "quit"
			}
			return route[turn-1]
		}
	}

	eng := engine.NewEngine(world, opts...)
	defer eng.Close()

	st := models.NewGameState("Simulated Captain")
	fmt.Println("--- Starting voyage ---")
	res := eng.Start(st)
	printLines(res)

	for turn := 1; turn <= maxTurns; turn++ {
		fmt.Printf("--- Turn %d ---\n", turn)

		action := next(st, turn, res)
		fmt.Printf("Player Action: %s\n", action)

		res = eng.Step(ctx, st, action)
		printLines(res)
		fmt.Printf("Stats: Scene=%s, Health=%d, Reputation=%d, Inventory=%v\n\n", st.Scene, st.Health, st.Reputation, st.Inventory)

		if res.Over() {
			logger.Info("simulation finished", zap.String("status", string(res.Status)), zap.Int("turns", turn))
			fmt.Printf("Game Ended: %s\n", res.Status)
			return
		}
	}
	fmt.Println("Turn limit reached.")
}

func printLines(res engine.Result) {
	for _, line := range res.Lines {
		fmt.Println(line)
	}
}

func getPlayerAction(ctx context.Context, model *genai.GenerativeModel, world *engine.World, st *models.GameState, last engine.Result) string {
	scene, _ := world.Scene(st.Scene)

	prompt := fmt.Sprintf(`You are playing a text-based pirate adventure game.
Current Location: %s
Health: %d
Inventory: %v
Available commands: look, sail, board, search, fight, negotiate, unlock

Last output:
%s

What is your next command? If the game asked you a question, answer it. Return ONLY the command string, no extra commentary.`,
		scene.Title,
		st.Health,
		st.Inventory,
		strings.Join(last.Lines, "\n"),
	)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "look"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "look"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
