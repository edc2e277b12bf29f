package ai

import (
	"fmt"
	"strings"

	"github.com/freefly-ai/inkflow/internal/domain"
)

// SystemInstruction is the base persona for narrative generation.
const SystemInstruction = "你是一位经验丰富的网络小说作家,精通各种类型的长篇小说创作。" +
	"你的文笔流畅自然,善于塑造人物、铺设伏笔、推进情节。" +
	"请始终使用与作品一致的语言和文风进行创作,直接输出正文内容,不要输出任何解释或客套话。"

// EntryDigest is the compact projection of a knowledge entry placed in
// provider prompts: enough to identify the entry without its full body.
type EntryDigest struct {
	ID           string
	CategoryName string
	Title        string
	Snippet      string
}

// DigestSnippetLen caps how many runes of an entry body go into a digest.
const DigestSnippetLen = 100

// MakeSnippet truncates content to DigestSnippetLen runes.
func MakeSnippet(content string) string {
	runes := []rune(content)
	if len(runes) <= DigestSnippetLen {
		return content
	}
	return string(runes[:DigestSnippetLen]) + "..."
}

// FormatReference renders one selected entry for inclusion in a prompt.
func FormatReference(categoryName, title, content string) string {
	return fmt.Sprintf("[%s] %s:\n%s", categoryName, title, content)
}

// SegmentParams carries everything the segment prompt needs.
type SegmentParams struct {
	Title           string
	Genre           string
	Description     string
	ChapterTitle    string
	Instruction     string
	References      []string
	PreviousRecaps  []string
	TargetWordCount int
}

// BuildSegmentPrompt assembles the story segment generation prompt:
// work context, selected knowledge references, a recap of the preceding
// chapters, and the author's instruction for this segment.
func BuildSegmentPrompt(p SegmentParams) string {
	var b strings.Builder

	b.WriteString("## 作品信息\n")
	fmt.Fprintf(&b, "书名:《%s》\n", p.Title)
	if p.Genre != "" {
		fmt.Fprintf(&b, "类型:%s\n", p.Genre)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "简介:%s\n", p.Description)
	}

	if len(p.References) > 0 {
		b.WriteString("\n## 参考资料\n")
		b.WriteString("以下是与本段剧情相关的设定资料,创作时必须与之保持一致:\n\n")
		for _, ref := range p.References {
			b.WriteString(ref)
			b.WriteString("\n\n")
		}
	}

	if len(p.PreviousRecaps) > 0 {
		b.WriteString("\n## 前情回顾\n")
		for _, recap := range p.PreviousRecaps {
			b.WriteString(recap)
			b.WriteString("\n\n")
		}
	}

	fmt.Fprintf(&b, "\n## 创作任务\n当前章节:%s\n", p.ChapterTitle)
	fmt.Fprintf(&b, "剧情要求:%s\n", p.Instruction)
	if p.TargetWordCount > 0 {
		fmt.Fprintf(&b, "请创作约 %d 字的正文内容,接续前文自然展开。\n", p.TargetWordCount)
	} else {
		b.WriteString("请创作接续前文的正文内容。\n")
	}

	return b.String()
}

// BuildSummaryPrompt asks for a condensed chapter summary.
func BuildSummaryPrompt(content string) string {
	return "请为以下章节内容生成一段200字以内的剧情摘要,保留关键人物、事件和伏笔," +
		"用于后续章节创作时的前情回顾。直接输出摘要,不要任何前缀:\n\n" + content
}

// BuildIdeasPrompt asks for brainstorm directions on a topic.
func BuildIdeasPrompt(topic string) string {
	return fmt.Sprintf("基于主题“%s”,提供3个富有创意的小说标题和一句话的简短钩子(Hook)。"+
		"请以简单的列表形式用中文返回。", topic)
}

// BuildConsistencyPrompt asks the model to audit a draft against the
// supplied setting references and report contradictions.
func BuildConsistencyPrompt(text string, references []string) string {
	var b strings.Builder
	b.WriteString("你是一位严谨的小说设定校对员。请对照以下设定资料,检查正文中是否存在与设定矛盾之处" +
		"(人物性格、能力、物品、世界观规则等)。\n\n## 设定资料\n")
	for _, ref := range references {
		b.WriteString(ref)
		b.WriteString("\n\n")
	}
	b.WriteString("## 待检查正文\n")
	b.WriteString(text)
	b.WriteString("\n\n请逐条列出发现的矛盾及依据;若未发现矛盾,请明确说明。")
	return b.String()
}

// BuildFixPrompt asks for a corrected draft given an audit report and
// the same setting references the audit used.
func BuildFixPrompt(text, report string, references []string) string {
	var b strings.Builder
	b.WriteString("以下正文存在设定矛盾。\n\n## 设定资料\n")
	for _, ref := range references {
		b.WriteString(ref)
		b.WriteString("\n\n")
	}
	b.WriteString("## 矛盾报告\n")
	b.WriteString(report)
	b.WriteString("\n\n## 原文\n")
	b.WriteString(text)
	b.WriteString("\n\n请在尽量保留原文文风和情节走向的前提下修正这些矛盾,直接输出修正后的完整正文。")
	return b.String()
}

// BuildEvolutionPrompt asks the model to compare the chapter against the
// known entry digests and propose NEW / UPDATE suggestions as a JSON
// array.
func BuildEvolutionPrompt(chapterContent string, digests []EntryDigest) string {
	var b strings.Builder
	b.WriteString("你是小说知识库的维护助手。请阅读以下章节正文,对照已有的知识条目摘要," +
		"找出需要新增或更新的设定信息。\n\n## 已有知识条目\n")
	if len(digests) == 0 {
		b.WriteString("(知识库为空)\n")
	}
	for _, d := range digests {
		fmt.Fprintf(&b, "ID: %s | 分类: %s | 名称: %s\n摘要: %s\n\n",
			d.ID, d.CategoryName, d.Title, d.Snippet)
	}
	b.WriteString("## 章节正文\n")
	b.WriteString(chapterContent)
	b.WriteString("\n\n请以 JSON 数组输出建议,每项格式为 " +
		`{"type":"NEW"或"UPDATE","categoryType":"CHARACTER"/"WORLD"/"ITEM"/"OTHER",` +
		`"name":"条目名称","description":"完整的条目内容","reason":"提出该建议的依据",` +
		`"originalId":"仅 UPDATE 时填写对应条目的 ID"}` +
		"。UPDATE 的 description 应是合并新信息后的完整内容。若无建议,输出 []。只输出 JSON,不要其他文字。")
	return b.String()
}

// RetrievalParams carries the smart selection prompt inputs.
type RetrievalParams struct {
	Title       string
	Description string
	Outline     string
	Instruction string
	Index       []domain.RetrievalIndexItem
}

// BuildRetrievalPrompt asks the model to pick which knowledge entries are
// relevant to the upcoming segment, returning their IDs as a JSON array.
func BuildRetrievalPrompt(p RetrievalParams) string {
	var b strings.Builder
	b.WriteString("你是小说创作的资料检索助手。下面是知识库条目索引(仅含 ID、名称、分类)," +
		"以及即将创作的剧情要求。请挑选与本段剧情直接相关的条目。\n\n")
	fmt.Fprintf(&b, "## 作品\n《%s》", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, ":%s", p.Description)
	}
	b.WriteString("\n\n## 条目索引\n")
	for _, item := range p.Index {
		fmt.Fprintf(&b, "ID: %s | 分类: %s | 名称: %s\n", item.ID, item.CategoryName, item.Title)
	}
	if p.Outline != "" {
		b.WriteString("\n## 本章大纲(节选)\n")
		b.WriteString(p.Outline)
		b.WriteString("\n")
	}
	b.WriteString("\n## 剧情要求\n")
	b.WriteString(p.Instruction)
	b.WriteString("\n\n请以 JSON 数组输出选中条目的 ID,例如 [\"id1\",\"id2\"]。" +
		"若没有相关条目,输出 []。只输出 JSON,不要其他文字。")
	return b.String()
}
