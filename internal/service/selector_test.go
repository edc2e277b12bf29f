package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freefly-ai/inkflow/internal/domain"
)

func newSelectorWork() *domain.Work {
	return &domain.Work{
		ID:    "w1",
		Title: "星海拾遗",
		Categories: []domain.KnowledgeCategory{
			{ID: "cat-char", Name: "主要人物"},
			{ID: "cat-outline", Name: "大纲"},
		},
		Entries: []domain.KnowledgeEntry{
			{ID: "e1", CategoryID: "cat-char", Title: "凌岸", Content: "领航员"},
			{ID: "e2", CategoryID: "cat-char", Title: "苏晚", Content: "舰长"},
			{ID: "e3", CategoryID: "cat-outline", Title: "第一卷", Content: "寻找遗迹"},
		},
	}
}

func TestManualSelect(t *testing.T) {
	svc := NewSelectorService(&fakeProvider{})
	w := newSelectorWork()

	t.Run("formats selected entries in entry order", func(t *testing.T) {
		sel := svc.ManualSelect(w, []string{"e2", "e1"})

		require.Len(t, sel.References, 2)
		assert.Equal(t, "[主要人物] 凌岸:\n领航员", sel.References[0])
		assert.Equal(t, "[主要人物] 苏晚:\n舰长", sel.References[1])
		assert.Equal(t, len([]rune("领航员"))+len([]rune("舰长")), sel.CharCount)
	})

	t.Run("skips unknown ids silently", func(t *testing.T) {
		sel := svc.ManualSelect(w, []string{"e1", "ghost"})

		require.Len(t, sel.References, 1)
		assert.Equal(t, []string{"e1"}, sel.EntryIDs)
	})

	t.Run("empty selection yields empty references", func(t *testing.T) {
		sel := svc.ManualSelect(w, nil)

		assert.Empty(t, sel.References)
		assert.Zero(t, sel.CharCount)
	})
}

func TestSmartSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("selects entries the provider names", func(t *testing.T) {
		provider := &fakeProvider{structured: `["e1","e3"]`}
		svc := NewSelectorService(provider)

		sel := svc.SmartSelect(ctx, newSelectorWork(), "写凌岸的过去")

		assert.Equal(t, []string{"e1", "e3"}, sel.EntryIDs)
		assert.Equal(t, 1, provider.structuredCalls)
		assert.Contains(t, provider.lastPrompt, "写凌岸的过去")
		assert.Contains(t, provider.lastPrompt, "ID: e2", "index covers all entries")
	})

	t.Run("includes bounded outline in the request", func(t *testing.T) {
		provider := &fakeProvider{structured: `[]`}
		svc := NewSelectorService(provider)

		svc.SmartSelect(ctx, newSelectorWork(), "继续")

		assert.Contains(t, provider.lastPrompt, "寻找遗迹")
	})

	t.Run("truncates long outlines", func(t *testing.T) {
		provider := &fakeProvider{structured: `[]`}
		svc := NewSelectorService(provider)
		w := newSelectorWork()
		w.Entries[2].Content = strings.Repeat("纲", outlinePrefixLen*2)

		svc.SmartSelect(ctx, w, "继续")

		outline := svc.extractOutline(w)
		assert.Equal(t, outlinePrefixLen, len([]rune(outline)))
	})

	t.Run("malformed response degrades to empty set", func(t *testing.T) {
		provider := &fakeProvider{structured: `这不是 JSON`}
		svc := NewSelectorService(provider)

		sel := svc.SmartSelect(ctx, newSelectorWork(), "继续")

		assert.Empty(t, sel.EntryIDs)
		assert.Empty(t, sel.References)
	})

	t.Run("provider failure degrades to empty set", func(t *testing.T) {
		provider := &fakeProvider{structuredErr: errors.New("timeout")}
		svc := NewSelectorService(provider)

		sel := svc.SmartSelect(ctx, newSelectorWork(), "继续")

		assert.Empty(t, sel.EntryIDs)
	})

	t.Run("unknown returned ids are harmless", func(t *testing.T) {
		provider := &fakeProvider{structured: `["ghost","e2"]`}
		svc := NewSelectorService(provider)

		sel := svc.SmartSelect(ctx, newSelectorWork(), "继续")

		assert.Equal(t, []string{"e2"}, sel.EntryIDs)
	})

	t.Run("empty knowledge base skips the provider", func(t *testing.T) {
		provider := &fakeProvider{structured: `[]`}
		svc := NewSelectorService(provider)

		sel := svc.SmartSelect(ctx, &domain.Work{ID: "w2", Title: "空"}, "继续")

		assert.Empty(t, sel.EntryIDs)
		assert.Zero(t, provider.structuredCalls)
	})
}
