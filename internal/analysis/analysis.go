// Package analysis produces the three-dimension ESG breakdown of a loaded
// report by prompting the configured model directly.
package analysis

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"esgchat/internal/chat"
	"esgchat/internal/document"
)

const englishPrompt = `You are a professional ESG report analyst.

Please critically analyze the following ESG report and summarize findings into the **three official ESG dimensions**:
1. Environmental (E): climate change, energy, emissions, biodiversity, etc.
2. Social (S): employee relations, diversity, education, customer/community engagement
3. Governance (G): board structure, transparency, cybersecurity, risk management, ethics

For each of the three sections, return:
- **Core Strategy**: One concise sentence that summarizes the main goal or policy direction
- **Key Actions**: A bullet list (3-5 items) of clear, concrete actions or programs the company has taken.
- **Areas for Improvement**: Any vague statements, missing indicators, repetitive info, or lack of quantitative support (write 'N/A' if none)

Avoid overlaps — each point should appear in only one category.
If applicable, comment on whether the actions include measurable KPIs, clear timelines, or observable outcomes.
ESG Report Content:
%s`

const chinesePrompt = `你是一位專業的 ESG 報告分析師。

請根據下方企業永續報告的內容，分別針對三個構面進行批判性分析與重點整理：
1. 環境（Environmental）：與氣候變遷、能源、碳排、資源使用、生物多樣性有關的政策與行動
2. 社會（Social）：涉及員工、社區、客戶、教育、多元共融、員工照顧等人際互動面向
3. 治理（Governance）：與公司治理、風險管理、董事會、資訊安全、政策制定有關的議題

請針對每個構面提供以下資訊：
1. **核心策略**：一句話描述該構面的整體方向與目標
2. **關鍵行動**：條列 3~5 項具體實踐作法或措施（避免空泛口號）
3. **待改善處**：指出內容中的缺口、模糊處、缺乏量化指標、或過於籠統的部分（如無則寫 N/A）

請避免同一項目出現在多個構面，需根據內容判斷最合適分類。
報告內容如下：
%s`

// Analyzer runs the analysis prompt against a completion backend.
type Analyzer struct {
	adapter chat.Adapter
}

func New(adapter chat.Adapter) *Analyzer {
	return &Analyzer{adapter: adapter}
}

// Analyze builds the language-appropriate analyst prompt over the report
// text and returns the model's breakdown. Chinese output gets its markdown
// spacing normalized.
func (a *Analyzer) Analyze(ctx context.Context, reportText string, lang document.Language) (string, error) {
	if strings.TrimSpace(reportText) == "" {
		return "", fmt.Errorf("no report text to analyze")
	}

	template := englishPrompt
	if lang == document.LangChinese {
		template = chinesePrompt
	}

	history := []chat.Message{{
		Role:    chat.RoleUser,
		Content: chat.TextContent(fmt.Sprintf(template, reportText)),
	}}
	text, _, err := a.adapter.Reply(ctx, history, nil)
	if err != nil {
		return "", err
	}

	if lang == document.LangChinese {
		text = CleanChineseMarkdown(text)
	}
	return text, nil
}

var bulletStart = regexp.MustCompile(`([^\n])- `)

// CleanChineseMarkdown inserts sentence and bullet breaks that Chinese model
// output tends to run together.
func CleanChineseMarkdown(text string) string {
	text = strings.ReplaceAll(text, "。\n", "。\n\n")
	text = strings.ReplaceAll(text, "。", "。\n")
	text = bulletStart.ReplaceAllString(text, "$1\n- ")
	return text
}
