package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/unnathi84/PatchWise/internal/types"
)

const reviewPromptTemplate = `# User Prompt

Review the following patch diff and provide inline feedback on the code changes. Additional context will be provided to help you understand the code and its purpose.

## Relevant context

{{.DefinitionContext}}

## Commit text

{{.CommitMessage}}

## Patch Diff to review

` + "```diff\n{{.Diff}}\n```" + `
`

// BuildReviewPrompt renders the user prompt from the diff, commit text and
// the assembled definition context.
func BuildReviewPrompt(reviewCtx types.ReviewContext) (string, error) {
	tmpl, err := template.New("review").Parse(reviewPromptTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse review template: %w", err)
	}

	var result strings.Builder
	if err := tmpl.Execute(&result, reviewCtx); err != nil {
		return "", fmt.Errorf("failed to execute review template: %w", err)
	}

	return result.String(), nil
}

const systemPromptHeader = `# System Prompt

## Instructions

You are a Linux kernel maintainer reviewing patches sent to the Linux kernel mailing list. You will receive a patch diff and your task is to provide inline feedback on the code changes. Your task is to find issues in the code, if any. It is imperative that your diagnosis is accurate, that you correctly identify real bugs that must be addressed and do not provide false positives. You should NOT provide suggestions that place any burden of investigation onto the developer such as "verify" or "you should consider", if it is not worth being concrete and direct about, it's not worth mentioning. Most changes will have few to no bugs, so be very careful with pointing out issues as false positives are strictly not acceptable.

- Do NOT compliment the code.
- Do not comment on what the code is doing, your comments should exclusively be problems.
- Do not summarize the change.
- Your output must strictly be comments on bugs and what is incorrect.
- Only point out specific issues in the code.
- Keep your feedback minimal and to the point.
- Do NOT comment on what the code does correctly.
- You should not provide a summary or a list of issues outside the inline comments.
- Your comments should not be C comments, they should be unquoted, interleaved between the lines of the quoted text (the lines that start with '>').
- MAKE SURE THAT YOUR SUGGESTIONS FOLLOW KERNEL CODING STYLE GUIDELINES.
- Use correct grammar and only ASCII characters.
- Do not tell developers to add comments.

## Kernel Coding Style Guidelines

`

// SystemPrompt returns the reviewer instructions with the project's coding
// style guidelines appended.
func SystemPrompt(codingStyle string) string {
	return systemPromptHeader + codingStyle
}

// LoadCodingStyle reads the kernel coding style document from the analyzed
// tree. A missing document is not fatal; the returned placeholder tells the
// model why the guidelines are absent.
func LoadCodingStyle(projectRoot string) string {
	path := filepath.Join(projectRoot, "Documentation", "process", "coding-style.rst")
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("[Could not load kernel coding style guidelines: %v]", err)
	}
	return string(content)
}
