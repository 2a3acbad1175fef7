package game

import (
	"fmt"

	"go.uber.org/zap"

	"emberpath/internal/config"
	"emberpath/internal/events"
	"emberpath/internal/items"
	"emberpath/internal/stores"
)

// Assets are the read-only catalogs a session plays on
type Assets struct {
	Items  *items.Catalog
	Stores *stores.Catalog
	Events *events.Graph
}

// LoadAssets loads the three catalogs and logs every cross-reference
// problem as a warning. Problems do not stop loading.
func LoadAssets(cfg config.AssetsConfig, logger *zap.Logger) (*Assets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	itemCatalog, err := items.LoadCatalog(cfg.Items)
	if err != nil {
		return nil, err
	}
	storeCatalog, err := stores.LoadCatalog(cfg.Stores)
	if err != nil {
		return nil, err
	}
	graph, err := events.LoadGraph(cfg.Events)
	if err != nil {
		return nil, err
	}

	a := &Assets{Items: itemCatalog, Stores: storeCatalog, Events: graph}
	for _, p := range a.Problems() {
		logger.Warn("asset problem", zap.String("problem", p))
	}
	logger.Info("assets loaded",
		zap.Int("items", itemCatalog.Len()),
		zap.Int("stores", storeCatalog.Len()),
		zap.Int("events", graph.Len()))
	return a, nil
}

// Problems lists references between catalogs that do not resolve
func (a *Assets) Problems() []string {
	var out []string
	for _, d := range a.Events.DanglingTargets() {
		out = append(out, fmt.Sprintf("event %s: %s points at unknown event %s", d.EventID, d.Source, d.Target))
	}
	for eventID, ids := range a.Events.ItemReferences() {
		for _, id := range ids {
			if !a.Items.Has(id) {
				out = append(out, fmt.Sprintf("event %s: grants unknown item %s", eventID, id))
			}
		}
	}
	for _, storeID := range a.Stores.IDs() {
		if !a.Events.Has(storeID) {
			out = append(out, fmt.Sprintf("store %s: no event with the same id", storeID))
		}
	}
	for storeID, ids := range a.Stores.ItemReferences() {
		for _, id := range ids {
			if !a.Items.Has(id) {
				out = append(out, fmt.Sprintf("store %s: sells unknown item %s", storeID, id))
			}
		}
	}
	return out
}
