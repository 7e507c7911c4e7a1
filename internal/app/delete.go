package app

import (
	"context"

	"pricepulse/internal/store"
)

type ItemDelete struct {
	Store  store.Store
	Logger logger
}

type DeleteResult struct {
	Removed bool
	Notice  string
}

const (
	deleteInProgressLabel = "Removing…"
	deleteFailedNotice    = "Could not delete the item. Please try again."
)

// Run performs the delete flow: the control is disabled with an in-progress
// label before anything else, and the item is only removed from the rendered
// list once the store confirms. On failure the control is restored and the
// item stays visible.
func (d ItemDelete) Run(ctx context.Context, itemID string, ctl *Control) DeleteResult {
	ctl.Begin(deleteInProgressLabel)

	if err := d.Store.DeleteItem(ctx, itemID); err != nil {
		d.Logger.Errorf("ItemDelete: error deleting item with ID: %s, err: %v", itemID, err)
		ctl.Restore()
		return DeleteResult{Removed: false, Notice: deleteFailedNotice}
	}
	return DeleteResult{Removed: true}
}
