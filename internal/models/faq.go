package models

import (
	"encoding/json"
	"errors"
)

type FAQ struct {
	ID           int64  `db:"id"            json:"id"`
	Question     string `db:"question"      json:"question"`
	Answer       string `db:"answer"        json:"answer"`
	DisplayOrder int    `db:"display_order" json:"display_order"`
}

type CreateFAQRequest struct {
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	DisplayOrder *int   `json:"display_order,omitempty"`
}

type UpdateFAQRequest struct {
	Question     *string `json:"question,omitempty"`
	Answer       *string `json:"answer,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
}

func (r UpdateFAQRequest) Empty() bool {
	return r.Question == nil && r.Answer == nil && r.DisplayOrder == nil
}

// ReorderItem accepts either a bare id or {"id": .., "display_order": ..}.
type ReorderItem struct {
	ID           int64 `json:"id"`
	DisplayOrder *int  `json:"display_order,omitempty"`
}

func (it *ReorderItem) UnmarshalJSON(b []byte) error {
	var id int64
	if err := json.Unmarshal(b, &id); err == nil {
		it.ID = id
		it.DisplayOrder = nil
		return nil
	}
	type plain ReorderItem
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return errors.New("order items must be ids or {id, display_order} objects")
	}
	*it = ReorderItem(p)
	return nil
}

type ReorderFAQRequest struct {
	Order []ReorderItem `json:"order"`
}
