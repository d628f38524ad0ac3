package badge

// Kind 徽章统计维度
type Kind string

const (
	QuestionCount   Kind = "QUESTION_COUNT"
	AnswerCount     Kind = "ANSWER_COUNT"
	QuestionUpvotes Kind = "QUESTION_UPVOTES"
	AnswerUpvotes   Kind = "ANSWER_UPVOTES"
	TotalViews      Kind = "TOTAL_VIEWS"
)

// Thresholds 三个等级的门槛
type Thresholds struct {
	Bronze int64
	Silver int64
	Gold   int64
}

// Table 维度到门槛的映射
type Table map[Kind]Thresholds

// Criterion 某一维度上的用户统计值
type Criterion struct {
	Kind  Kind  `json:"type"`
	Count int64 `json:"count"`
}

// Counts 各等级获得的徽章数
type Counts struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// DefaultTable 默认门槛
var DefaultTable = Table{
	QuestionCount:   {Bronze: 10, Silver: 50, Gold: 100},
	AnswerCount:     {Bronze: 10, Silver: 50, Gold: 100},
	QuestionUpvotes: {Bronze: 10, Silver: 50, Gold: 100},
	AnswerUpvotes:   {Bronze: 10, Silver: 50, Gold: 100},
	TotalViews:      {Bronze: 1000, Silver: 10000, Gold: 100000},
}

// Assign 对每个维度，门槛不高于统计值的等级各计一枚；未知维度忽略
func (t Table) Assign(criteria []Criterion) Counts {
	var c Counts
	for _, cr := range criteria {
		th, ok := t[cr.Kind]
		if !ok {
			continue
		}
		if cr.Count >= th.Bronze {
			c.Bronze++
		}
		if cr.Count >= th.Silver {
			c.Silver++
		}
		if cr.Count >= th.Gold {
			c.Gold++
		}
	}
	return c
}

// AssignBadges 使用默认门槛计算徽章
func AssignBadges(criteria []Criterion) Counts {
	return DefaultTable.Assign(criteria)
}
