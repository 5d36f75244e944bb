package reading

import (
	"mitay-fortune-quiz/internal/element"
	"mitay-fortune-quiz/internal/messages"
)

type adviceTable struct {
	element  map[element.Element]string
	goal     map[element.Goal]string
	habit    string
	fallback string
}

var advice = map[messages.Lang]adviceTable{
	messages.EN: {
		element: map[element.Element]string{
			element.Wood:  "Set one growth target; ship small daily progress.",
			element.Fire:  "Increase visibility: share a weekly highlight.",
			element.Earth: "Stabilize routines; batch tasks every morning.",
			element.Metal: "Declutter and set sharp priorities; say no twice.",
			element.Water: "Protect recovery windows; hydrate and walk 20 min.",
		},
		goal: map[element.Goal]string{
			element.Career:  "Book a feedback chat; keep a weekly demo log.",
			element.Wealth:  "Audit expenses; raise price or add upsell.",
			element.Health:  "Schedule 3 workouts; track sleep 7 nights.",
			element.Emotion: "Write three lines in a mood journal each night.",
			element.Love:    "Plan one screen-free evening with someone close.",
			element.Study:   "Block two 45-minute focus sessions a day.",
			element.Social:  "Reach out to one new contact every week.",
		},
		habit:    "Pick one tiny habit, tie it to an existing routine, and tick it off daily.",
		fallback: "Keep one small promise to yourself every day this month.",
	},
	messages.CN: {
		element: map[element.Element]string{
			element.Wood:  "设一个成长目标；每天小步前进并记录。",
			element.Fire:  "提高曝光度：每周公开一次成果。",
			element.Earth: "稳住作息；每天上午批量处理琐事。",
			element.Metal: "做减法与聚焦；本周学会拒绝两次。",
			element.Water: "保护修复窗口；多喝水并坚持 20 分钟步行。",
		},
		goal: map[element.Goal]string{
			element.Career:  "约一次反馈沟通；每周记录一次成果演示。",
			element.Wealth:  "梳理开支；尝试提价或增加附加销售。",
			element.Health:  "安排每周 3 次运动；连续 7 晚记录睡眠。",
			element.Emotion: "每晚在情绪日记里写下三行。",
			element.Love:    "安排一个不看手机的夜晚，陪伴身边的人。",
			element.Study:   "每天安排两段 45 分钟的专注学习。",
			element.Social:  "每周主动联系一位新朋友。",
		},
		habit:    "选一个微习惯，挂靠在已有的日常上，每天打卡。",
		fallback: "这个月每天对自己守一个小承诺。",
	},
}

// Suggestions returns exactly three tips: one for the month element, one for
// the goal and one habit tip. Unknown keys get the generic tip.
func Suggestions(lang messages.Lang, goal element.Goal, month element.Element) []string {
	table, ok := advice[lang]
	if !ok {
		table = advice[messages.EN]
	}
	elemTip, ok := table.element[month]
	if !ok {
		elemTip = table.fallback
	}
	goalTip, ok := table.goal[goal]
	if !ok {
		goalTip = table.fallback
	}
	return []string{elemTip, goalTip, table.habit}
}
