package domain

// PromptTemplate is a reusable generation prompt. Stored as given; the
// engine attaches user instructions beneath the template on use.
type PromptTemplate struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	CreatedAt int64  `json:"createdAt"`
}

// DefaultPromptCategories are seeded into an empty prompt library.
var DefaultPromptCategories = []string{"脑洞", "大纲", "卷纲", "细纲", "正文", "简介", "人物", "书名"}

// DefaultPromptTemplates are seeded the first time the prompt library is
// read and found empty. IDs and timestamps are assigned at seed time.
var DefaultPromptTemplates = []PromptTemplate{
	{
		Title:    "创意风暴",
		Category: "脑洞",
		Content:  "请基于以下关键词：[关键词1]、[关键词2]，提供3个截然不同的小说核心创意（High Concept）。每个创意包含：核心冲突、独特卖点、一句话梗概。",
	},
	{
		Title:    "三幕式大纲",
		Category: "大纲",
		Content:  "请使用经典的三幕式结构（铺垫、对抗、结局）为一部关于[主题]的小说撰写大纲。重点描述情节点（Plot Points）和角色的弧光变化。",
	},
	{
		Title:    "章节细纲生成",
		Category: "细纲",
		Content:  "当前章节的目标是[目标]。请为这一章列出5-7个具体的场景节拍（Beats），包括对话焦点、动作描写和情感转折。",
	},
	{
		Title:    "沉浸式描写",
		Category: "正文",
		Content:  "请扩写以下场景：[场景简述]。要求运用“展示而非讲述”（Show, Don't Tell）的技巧，调动五感（视觉、听觉、嗅觉等），侧重于氛围渲染和人物的潜台词。",
	},
	{
		Title:    "反派设计",
		Category: "人物",
		Content:  "请设计一个名为[名字]的反派角色。不要让他仅仅是“邪恶”的，请给出他扭曲的价值观来源、一个令人同情的弱点，以及他与主角的镜像关系。",
	},
	{
		Title:    "吸引人的书名",
		Category: "书名",
		Content:  "这本小说关于[核心内容]。请生成10个书名，分为三种风格：1. 网文热血风；2. 出版文艺风；3. 悬疑极其抓人眼球风。",
	},
}
