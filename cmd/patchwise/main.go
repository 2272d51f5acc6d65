package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/unnathi84/PatchWise/internal/agent"
	"github.com/unnathi84/PatchWise/internal/llm"
	"github.com/unnathi84/PatchWise/internal/tools"
	"github.com/unnathi84/PatchWise/pkg/config"
	"github.com/unnathi84/PatchWise/pkg/logging"
)

var version = "dev"

func main() {
	showHelp := flag.Bool("help", false, "Show help message")
	showVersion := flag.Bool("version", false, "Show version information")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	commit := flag.String("commit", "", "Review this commit instead of staged changes")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Printf("patchwise version %s\n", version)
		return
	}

	if *showHelp {
		fmt.Println("PatchWise - AI-assisted patch review with language-server context")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Printf("  %s [options]\n", os.Args[0])
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Printf("  %s                           # Review staged changes with config.json\n", os.Args[0])
		fmt.Printf("  %s --commit HEAD             # Review the last commit\n", os.Args[0])
		fmt.Printf("  %s --config custom.json      # Use custom config\n", os.Args[0])
		fmt.Println()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load config from %s: %v\n", *configFile, err)
		os.Exit(1)
	}

	if !slices.Contains(llm.SupportedProviders, cfg.LLM.Provider) {
		fmt.Fprintf(os.Stderr, "Error: Unsupported LLM provider: %s\n", cfg.LLM.Provider)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger, err := logging.New(logging.Config{
		Level:   logLevel,
		LogDir:  cfg.LSP.SandboxDir,
		Service: "patchwise",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	fmt.Println("")
	fmt.Println("==========================")
	fmt.Println("  PatchWise Review Agent  ")
	fmt.Println("==========================")
	fmt.Println("")

	llmProvider, err := llm.NewProvider(llm.ProviderConfig{
		Type:    llm.ProviderType(cfg.LLM.Provider),
		Model:   cfg.LLM.Model,
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create LLM provider: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Using %s API with %s model\n\n", cfg.LLM.Provider, llmProvider.GetModel())

	toolRegistry := tools.NewRegistry()

	toolsToRegister := map[tools.ToolName]tools.Tool{
		tools.ToolNameGitStagedDiff: &tools.GitStagedDiffTool{Dir: cfg.LSP.ProjectRoot},
		tools.ToolNameGitCommitDiff: &tools.GitCommitDiffTool{Dir: cfg.LSP.ProjectRoot},
		tools.ToolNameGitCommitMsg:  &tools.GitCommitMessageTool{Dir: cfg.LSP.ProjectRoot},
		tools.ToolNameWriteFile:     &tools.WriteFileTool{},
		tools.ToolNameReadFile:      &tools.ReadFileTool{},
	}

	for name, tool := range toolsToRegister {
		toolRegistry.Register(name, tool)
	}

	reviewAgent := agent.NewPatchReviewAgent(llmProvider, toolRegistry, cfg, logger)

	if *commit != "" {
		err = reviewAgent.ReviewCommit(*commit)
	} else {
		err = reviewAgent.ReviewStagedChanges()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Patch review failed: %v\n", err)
		os.Exit(1)
	}
}
