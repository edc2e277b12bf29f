package domain

// BackupVersion is the current backup envelope format version.
const BackupVersion = 1

// Backup is the JSON envelope produced by export and consumed by restore.
// Restore is additive and overwriting per id: records present in the file
// replace records of the same id, records not present are untouched.
type Backup struct {
	Version          int              `json:"version"`
	Timestamp        int64            `json:"timestamp"`
	Works            []*Work          `json:"works"`
	PromptTemplates  []PromptTemplate `json:"promptTemplates"`
	PromptCategories []string         `json:"promptCategories"`
	UsageStats       *UsageStats      `json:"usageStats,omitempty"`
}

// Empty reports whether the envelope carries nothing restorable.
func (b *Backup) Empty() bool {
	return len(b.Works) == 0 && len(b.PromptTemplates) == 0 &&
		len(b.PromptCategories) == 0 && b.UsageStats == nil
}
