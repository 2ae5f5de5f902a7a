package extractor

import "regexp"

// 各字段的抽取模式。模式刻意保守，宁可漏判交给AI补全，不产出脏数据。
var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	phoneRegex = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?(?:\(\d{2,4}\)[-.\s]?)?\d{3,4}[-.\s]?\d{3,4}(?:[-.\s]?\d{2,4})?`)

	urlRegex = regexp.MustCompile(`https?://[^\s<>"')\]]+|(?:www\.|github\.com/|linkedin\.com/)[^\s<>"')\]]+`)

	// 英文姓名：首行附近的2-4个首字母大写单词
	latinNameRegex = regexp.MustCompile(`^[A-Z][a-zA-Z'.\-]+(?:\s+[A-Z][a-zA-Z'.\-]+){1,3}$`)

	// 中文姓名：2-4个汉字独立成行
	hanNameRegex = regexp.MustCompile(`^[\p{Han}]{2,4}$`)

	// 工作年限："5 years"、"5+ yrs"、"5年" 等写法
	yearsRegex = regexp.MustCompile(`(\d{1,2}(?:\.\d)?)\s*\+?\s*(?:years?|yrs?|年)`)

	// 地点："Location: xxx"、"居住地：xxx"、"City, ST"格式
	locationLabelRegex = regexp.MustCompile(`(?i)(?:location|address|based in|居住地|所在地|城市)[:：]\s*(.+)`)
	cityStateRegex     = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)?),\s*([A-Z]{2})\b`)

	// 院校名：大写开头的连续单词以University等结尾，或汉字以大学/学院结尾
	institutionRegex = regexp.MustCompile(`((?:[A-Z][A-Za-z&.']+ )*(?:University|College|Institute|Polytechnic)(?: of [A-Z][A-Za-z]+)?|[\p{Han}]{2,10}(?:大学|学院))`)

	// 毕业年份
	gradYearRegex = regexp.MustCompile(`\b(19[5-9]\d|20[0-4]\d)\b`)

	// 两个相邻年份拼起来的数字串，用于排除电话误匹配
	yearRangeRegex = regexp.MustCompile(`^(?:19|20)\d{2}(?:19|20)\d{2}$`)
)

// degreeKeywords 学位关键词到规范学位名
var degreeKeywords = []struct {
	pattern *regexp.Regexp
	degree  string
}{
	{regexp.MustCompile(`(?i)\b(?:ph\.?d|doctorate|doctoral)\b|博士`), "PhD"},
	{regexp.MustCompile(`(?i)\bmaster(?:'s)?\b|\bm\.?s\.?c?\b|\bmba\b|硕士|研究生`), "Master"},
	{regexp.MustCompile(`(?i)\bbachelor(?:'s)?\b|\bb\.?s\.?c?\b|\bb\.?a\.?\b|\bb\.?eng\b|学士|本科`), "Bachelor"},
	{regexp.MustCompile(`(?i)\bassociate\b|\bdiploma\b|大专|专科`), "Associate"},
}

// titleKeywords 职位关键词，命中即认为该行是当前职位
var titleKeywords = []string{
	"engineer", "developer", "programmer", "architect", "scientist",
	"analyst", "manager", "director", "consultant", "designer",
	"administrator", "specialist", "lead", "intern",
	"工程师", "开发", "架构师", "经理", "总监", "分析师", "设计师", "实习",
}
