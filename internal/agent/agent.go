package agent

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/unnathi84/PatchWise/internal/llm"
	"github.com/unnathi84/PatchWise/internal/lsp"
	"github.com/unnathi84/PatchWise/internal/prompts"
	"github.com/unnathi84/PatchWise/internal/tools"
	"github.com/unnathi84/PatchWise/internal/types"
	"github.com/unnathi84/PatchWise/internal/utils"
	"github.com/unnathi84/PatchWise/pkg/config"
	"github.com/unnathi84/PatchWise/pkg/logging"
	"github.com/unnathi84/PatchWise/pkg/spinner"
)

// PatchReviewAgent runs the full review pass: collect the diff and commit
// text, recover definitions for every touched identifier through the
// language server, assemble the context excerpt and hand everything to the
// model.
type PatchReviewAgent struct {
	llmProvider  llm.Provider
	toolRegistry *tools.Registry
	config       *config.Config
	logger       *logging.Logger
}

func NewPatchReviewAgent(provider llm.Provider, registry *tools.Registry, cfg *config.Config, logger *logging.Logger) *PatchReviewAgent {
	return &PatchReviewAgent{
		llmProvider:  provider,
		toolRegistry: registry,
		config:       cfg,
		logger:       logger,
	}
}

// ReviewStagedChanges reviews the staged diff. There is no commit text yet,
// so that prompt section stays empty.
func (a *PatchReviewAgent) ReviewStagedChanges() error {
	fmt.Println("Starting patch review on staged changes...")

	diffTool := a.toolRegistry.Get(tools.ToolNameGitStagedDiff)
	diffOutput, err := diffTool.Execute(map[string]any{})
	if err != nil {
		return fmt.Errorf("failed to get staged diff: %w", err)
	}

	return a.executeReview(diffOutput.(string), "")
}

// ReviewCommit reviews the diff introduced by a single commit together with
// its full commit message.
func (a *PatchReviewAgent) ReviewCommit(commit string) error {
	fmt.Printf("Starting patch review on commit %s...\n", commit)

	diffTool := a.toolRegistry.Get(tools.ToolNameGitCommitDiff)
	diffOutput, err := diffTool.Execute(map[string]any{"commit": commit})
	if err != nil {
		return fmt.Errorf("failed to get commit diff: %w", err)
	}

	msgTool := a.toolRegistry.Get(tools.ToolNameGitCommitMsg)
	msgOutput, err := msgTool.Execute(map[string]any{"commit": commit})
	if err != nil {
		return fmt.Errorf("failed to get commit message: %w", err)
	}

	return a.executeReview(diffOutput.(string), msgOutput.(string))
}

func (a *PatchReviewAgent) executeReview(diff, commitMessage string) error {
	if diff == "" {
		fmt.Println("   ✕ no changes found - nothing to review")
		return nil
	}

	diffAdditions, err := utils.ParseDiffAdditions(diff)
	if err != nil {
		return fmt.Errorf("failed to parse diff: %w", err)
	}

	fmt.Print("Files to be reviewed:")
	if len(diffAdditions) == 0 {
		fmt.Println("\n   ✕ diff touches no source files - nothing to review")
		return nil
	}
	for _, file := range sortedFiles(diffAdditions) {
		fmt.Printf("\n   ✓ %s", file)
	}
	fmt.Println()

	definitionContext, err := a.gatherDefinitionContext(diffAdditions)
	if err != nil {
		return fmt.Errorf("context gathering failed: %w", err)
	}

	reviewCtx := types.ReviewContext{
		Diff:              diff,
		CommitMessage:     commitMessage,
		DefinitionContext: definitionContext,
	}

	return a.GenerateReview(reviewCtx)
}

// gatherDefinitionContext drives the language server: start it, wait for
// the background index, resolve a definition for every identifier on an
// added line and render the bounded excerpts.
func (a *PatchReviewAgent) gatherDefinitionContext(diffAdditions map[string]utils.LineSet) (string, error) {
	lspCfg := a.config.LSP

	contextSpinner := spinner.New("Indexing project and resolving definitions...")
	contextSpinner.Start()
	defer contextSpinner.Stop()

	stderrLog := filepath.Join(lspCfg.SandboxDir, "clangd.log")
	transport, err := lsp.StartTransport(lspCfg.Command, clangdArgs(lspCfg), lspCfg.ProjectRoot, stderrLog, a.logger)
	if err != nil {
		return "", fmt.Errorf("failed to start language server: %w", err)
	}
	defer func() {
		if closeErr := transport.Close(); closeErr != nil {
			a.logger.Error("failed to stop language server", "error", closeErr)
		}
	}()

	session := lsp.NewSession(transport, a.logger)
	if err := session.Initialize(lspCfg.ProjectRoot); err != nil {
		return "", fmt.Errorf("language server handshake failed: %w", err)
	}

	waiter := lsp.NewIndexWaiter(session, a.logger)
	waiter.MaxTotalWait = time.Duration(lspCfg.IndexMaxTotalWait) * time.Second
	waiter.MaxStaleWait = time.Duration(lspCfg.IndexMaxStaleWait) * time.Second
	waiter.Interval = time.Duration(lspCfg.IndexPollInterval) * time.Second
	waiter.MaxInterval = time.Duration(lspCfg.IndexMaxInterval) * time.Second
	waiter.Wait()

	fallback, err := tools.NewCParser()
	if err != nil {
		a.logger.Error("failed to create fallback parser", "error", err)
		fallback = nil
	}

	resolver := tools.NewDefinitionResolver(session, lspCfg.ProjectRoot, fallback, a.logger)
	for _, relPath := range sortedFiles(diffAdditions) {
		if err := resolver.ProcessFile(relPath, diffAdditions[relPath]); err != nil {
			a.logger.Error("failed to process file", "path", relPath, "error", err)
		}
	}

	builder := tools.NewContextBuilder(lspCfg.ProjectRoot, lspCfg.MaxGap, a.logger)
	return builder.Build(resolver.Collected(), diffAdditions), nil
}

// GenerateReview builds the prompts, queries the provider and writes the
// artifacts to the sandbox directory.
func (a *PatchReviewAgent) GenerateReview(reviewCtx types.ReviewContext) error {
	prompt, err := prompts.BuildReviewPrompt(reviewCtx)
	if err != nil {
		return fmt.Errorf("failed to build review prompt: %w", err)
	}
	systemPrompt := prompts.SystemPrompt(prompts.LoadCodingStyle(a.config.LSP.ProjectRoot))

	writeTool := a.toolRegistry.Get(tools.ToolNameWriteFile)
	reportGen := NewReportGenerator(writeTool, a.config.LSP.SandboxDir)

	// The prompts land in the sandbox before the provider call so a failed
	// run still leaves them around for inspection.
	if err := reportGen.WritePrompts(prompt, systemPrompt); err != nil {
		a.logger.Error("failed to write prompt artifacts", "error", err)
	}

	reviewSpinner := spinner.New("Analyzing changes...")
	reviewSpinner.Start()

	review, err := a.llmProvider.Generate(prompt, systemPrompt)
	reviewSpinner.Stop()
	if err != nil {
		return fmt.Errorf("failed to generate review: %w", err)
	}

	formatted := utils.FormatChatResponse(review)

	reviewPath, err := reportGen.WriteReview(formatted)
	if err != nil {
		return err
	}

	fmt.Println("---")
	fmt.Println(formatted)
	fmt.Println("---")
	fmt.Printf("💾 Review saved to %s\n", reviewPath)

	return nil
}
