package domain

// DayStats is token usage for one calendar day (UTC, "2006-01-02" keys).
type DayStats struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
}

// UsageStats accumulates provider token usage across all works. A single
// global record; the store keeps it under a fixed id.
type UsageStats struct {
	TotalInputTokens  int64               `json:"totalInputTokens"`
	TotalOutputTokens int64               `json:"totalOutputTokens"`
	DailyStats        map[string]DayStats `json:"dailyStats"`
}

// Add accumulates one provider call's token counts under the given day.
func (s *UsageStats) Add(day string, input, output int64) {
	s.TotalInputTokens += input
	s.TotalOutputTokens += output
	if s.DailyStats == nil {
		s.DailyStats = make(map[string]DayStats)
	}
	d := s.DailyStats[day]
	d.InputTokens += input
	d.OutputTokens += output
	s.DailyStats[day] = d
}
