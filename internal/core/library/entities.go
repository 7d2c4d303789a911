package library

import (
	"context"
	"sort"
	"strings"

	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"
)

// 實體名稱，同時是 HTTP 路徑片段
const (
	EntityLookBooks   = "lookbooks"
	EntityTileBoards  = "tileboards"
	EntityWorkflows   = "workflows"
	EntityInspections = "inspections"
	EntityCollections = "collections"
)

// LookBook 圖片型錄
type LookBook struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	ImageIDs []string `json:"imageIds,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

func (l LookBook) EntityID() string { return l.ID }

// Validate 標題必填
func (l LookBook) Validate() error { return requireText("title", l.Title) }

// Tile 拼貼板上的一格
type Tile struct {
	ImageID  string `json:"imageId,omitempty"`
	RecipeID string `json:"recipeId,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// TileBoard 菜單拼貼板
type TileBoard struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tiles []Tile `json:"tiles,omitempty"`
}

func (t TileBoard) EntityID() string { return t.ID }

// Validate 標題必填
func (t TileBoard) Validate() error { return requireText("title", t.Title) }

// WorkflowStep 出菜流程的一步
type WorkflowStep struct {
	Label    string `json:"label"`
	RecipeID string `json:"recipeId,omitempty"`
	Minutes  int    `json:"minutes,omitempty"`
}

// DishWorkflowPlan 出菜流程
type DishWorkflowPlan struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	RecipeIDs []string       `json:"recipeIds,omitempty"`
	Steps     []WorkflowStep `json:"steps,omitempty"`
}

func (d DishWorkflowPlan) EntityID() string { return d.ID }

// Validate 標題必填，每一步都要有名稱
func (d DishWorkflowPlan) Validate() error {
	if err := requireText("title", d.Title); err != nil {
		return err
	}
	for _, s := range d.Steps {
		if err := requireText("step label", s.Label); err != nil {
			return err
		}
		if s.Minutes < 0 {
			return common.NewValidationError("step minutes must not be negative")
		}
	}
	return nil
}

// InspectionItem 檢查項目
type InspectionItem struct {
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
	Note   string `json:"note,omitempty"`
}

// InspectionReport 檢查報告
type InspectionReport struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Items []InspectionItem `json:"items,omitempty"`
}

func (r InspectionReport) EntityID() string { return r.ID }

// Validate 標題必填
func (r InspectionReport) Validate() error { return requireText("title", r.Title) }

// Passed 全部項目通過
func (r InspectionReport) Passed() bool {
	for _, it := range r.Items {
		if !it.Passed {
			return false
		}
	}
	return true
}

// RecipeCollection 食譜集
type RecipeCollection struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	RecipeIDs []string `json:"recipeIds,omitempty"`
}

func (c RecipeCollection) EntityID() string { return c.ID }

// Validate 名稱必填
func (c RecipeCollection) Validate() error { return requireText("name", c.Name) }

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return common.NewValidationError(field + " is required")
	}
	return nil
}

// Library 所有實體儲存
type Library struct {
	LookBooks   *Store[LookBook]
	TileBoards  *Store[TileBoard]
	Workflows   *Store[DishWorkflowPlan]
	Inspections *Store[InspectionReport]
	Collections *Store[RecipeCollection]

	resources map[string]Resource
}

// Open 載入所有實體
func Open(ctx context.Context, kv storage.KV) (*Library, error) {
	var (
		lib Library
		err error
	)
	if lib.LookBooks, err = NewStore(ctx, kv, EntityLookBooks, storage.KeyLookBooks,
		func(v *LookBook, id string) { v.ID = id }); err != nil {
		return nil, err
	}
	if lib.TileBoards, err = NewStore(ctx, kv, EntityTileBoards, storage.KeyTileBoards,
		func(v *TileBoard, id string) { v.ID = id }); err != nil {
		return nil, err
	}
	if lib.Workflows, err = NewStore(ctx, kv, EntityWorkflows, storage.KeyWorkflows,
		func(v *DishWorkflowPlan, id string) { v.ID = id }); err != nil {
		return nil, err
	}
	if lib.Inspections, err = NewStore(ctx, kv, EntityInspections, storage.KeyInspections,
		func(v *InspectionReport, id string) { v.ID = id }); err != nil {
		return nil, err
	}
	if lib.Collections, err = NewStore(ctx, kv, EntityCollections, storage.KeyCollections,
		func(v *RecipeCollection, id string) { v.ID = id }); err != nil {
		return nil, err
	}

	lib.resources = map[string]Resource{
		EntityLookBooks:   lib.LookBooks,
		EntityTileBoards:  lib.TileBoards,
		EntityWorkflows:   lib.Workflows,
		EntityInspections: lib.Inspections,
		EntityCollections: lib.Collections,
	}
	return &lib, nil
}

// Resource 依名稱取得實體儲存
func (l *Library) Resource(name string) (Resource, bool) {
	r, ok := l.resources[name]
	return r, ok
}

// Names 所有實體名稱
func (l *Library) Names() []string {
	names := make([]string, 0, len(l.resources))
	for n := range l.resources {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
