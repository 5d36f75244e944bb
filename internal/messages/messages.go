// Package messages holds the English and Chinese phrase tables shared by the
// terminal, file and web front ends.
package messages

import (
	"strings"
)

// Lang selects a phrase table.
type Lang string

const (
	EN Lang = "en"
	CN Lang = "cn"
)

// ParseLang returns the language for raw and whether it was recognized.
// Unrecognized input falls back to English.
func ParseLang(raw string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(raw))) {
	case EN:
		return EN, true
	case CN, "zh":
		return CN, true
	default:
		return EN, false
	}
}

// Messages is one language's phrase set. Placeholders use {name} syntax and
// are filled by Format.
type Messages struct {
	Title        string
	Welcome      string
	ChooseLang   string
	Name         string
	Method       string
	DOB          string
	BirthTime    string
	Nums         string
	Target       string
	Goal         string
	Confirm      string
	Invalid      string
	DidYouMean   string
	ResultTitle  string
	SummaryHint  string
	MonthEnergy  string
	GoalEnergy   string
	MeihuaEnergy string
	Score        string
	ScoreHint    string
	Suggestions  string
	PicksTitle   string
	Reason       string
	CTA          string
	Closing      string
	Saved        string
	Finish       string
	DownloadMD   string
	DownloadJSON string
	MethodOpts   [2]string
}

var tables = map[Lang]Messages{
	EN: {
		Title:        "MITAY · Fortune × Nails",
		Welcome:      "Hi! I’m MITAY’s fortune buddy. We’ll ask a few quick questions.",
		ChooseLang:   "Language? [en/cn] (default en): ",
		Name:         "What's your name or nickname? ",
		Method:       "Choose method: [1] Birthdate  [2] Meihua (three random numbers) ",
		DOB:          "Enter birthdate (YYYY-MM-DD): ",
		BirthTime:    "Enter birth time (HH:MM, optional; Enter to skip): ",
		Nums:         "Enter three numbers (comma-separated, e.g., 2,9,8): ",
		Target:       "Which year-month do you want to check? (YYYY-MM, e.g., 2025-09): ",
		Goal:         "Pick your focus (type keyword): career / wealth / health / emotion / love / study / social ",
		Confirm:      "Great, generating your reading...",
		Invalid:      "Input not recognized, please try again.",
		DidYouMean:   "Did you mean {goal}?",
		ResultTitle:  "Your quick reading",
		SummaryHint:  "This summary reflects the energy of your selected month.",
		MonthEnergy:  "Month {ym} leans **{elem}** element.",
		GoalEnergy:   "Your focus **{goal}** favors: {fav}.",
		MeihuaEnergy: "Your Meihua hint adds **{extra}** flavor.",
		Score:        "Overall score",
		ScoreHint:    "Score factors: month–goal fit, Meihua alignment, and product synergy.",
		Suggestions:  "Three improvement suggestions",
		PicksTitle:   "Your {n} nail picks",
		Reason:       "Reason",
		CTA:          "For more personalization, share your nail length/shape or budget.",
		Closing:      "Note: This is rules-based inspiration, not professional advice.",
		Saved:        "Saved: {json} and {md}",
		Finish:       "Generate",
		DownloadMD:   "Download Markdown",
		DownloadJSON: "Download JSON",
		MethodOpts:   [2]string{"Birthdate", "Meihua (three random numbers)"},
	},
	CN: {
		Title:        "MITAY · 命理 × 穿戴甲",
		Welcome:      "嗨！我是 MITAY 的命理小助手。我们会问你几个小问题。",
		ChooseLang:   "选择语言？[en/cn]（默认 en）：",
		Name:         "请输入你的名字或昵称：",
		Method:       "选择方式：[1] 出生日期  [2] 梅花易数（三个随机数字） ",
		DOB:          "请输入出生日期 (YYYY-MM-DD)：",
		BirthTime:    "请输入出生时间 (HH:MM，可选；直接回车跳过)：",
		Nums:         "请输入三个数字（用逗号分隔，如 2,9,8）：",
		Target:       "想查看哪一年哪一月？(YYYY-MM，例如 2025-09)：",
		Goal:         "选择希望提升的方向（输入关键词）：career / wealth / health / emotion / love / study / social ",
		Confirm:      "好的，正在为你生成结果……",
		Invalid:      "输入无效，请重试。",
		DidYouMean:   "你是想输入 {goal} 吗？",
		ResultTitle:  "你的简要解读",
		SummaryHint:  "此处仅反映你所选月份的能量概况。",
		MonthEnergy:  "所选月份 {ym} 的主导元素为 **{elem}**。",
		GoalEnergy:   "你的目标 **{goal}** 倾向元素：{fav}。",
		MeihuaEnergy: "梅花提示带来 **{extra}** 的辅助倾向。",
		Score:        "综合评分",
		ScoreHint:    "评分维度：月份与目标匹配度、梅花一致度、产品协同度。",
		Suggestions:  "三条提升建议",
		PicksTitle:   "为你精选的 {n} 款",
		Reason:       "推荐理由",
		CTA:          "想要更个性化的选择，可以告诉我指甲长度/形状或预算。",
		Closing:      "提示：以上为规则引擎灵感建议，不构成专业意见。",
		Saved:        "已保存：{json} 和 {md}",
		Finish:       "生成结果",
		DownloadMD:   "下载 Markdown",
		DownloadJSON: "下载 JSON",
		MethodOpts:   [2]string{"出生日期", "梅花易数（三个数字）"},
	},
}

// For returns the phrase set for lang, English when unknown.
func For(lang Lang) Messages {
	if m, ok := tables[lang]; ok {
		return m
	}
	return tables[EN]
}

// Format replaces {key} placeholders pairwise: Format(t, "ym", "2025-09").
func Format(template string, pairs ...string) string {
	if len(pairs) == 0 {
		return template
	}
	oldnew := make([]string, 0, len(pairs))
	for i := 0; i+1 < len(pairs); i += 2 {
		oldnew = append(oldnew, "{"+pairs[i]+"}", pairs[i+1])
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
