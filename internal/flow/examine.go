package flow

import (
	"go.uber.org/zap"

	"emberpath/internal/items"
)

// ExamineItem opens the examine overlay over the current scene. The scene
// image stays when image is empty. A second examine while one is open is
// rejected.
func (c *Controller) ExamineItem(name, description, image string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.examine(name, description, image)
}

func (c *Controller) examine(name, description, image string) error {
	if c.examining {
		c.logger.Warn("examine rejected, overlay already open", zap.String("name", name))
		return ErrAlreadyExamining
	}
	if image == "" {
		image = c.current.Image
	}
	c.overlay = overlay{text: name + "\n\n" + description, image: image}
	c.examining = true
	return nil
}

func (c *Controller) examineItem(item *items.Item) error {
	return c.examine(item.Name, item.Description, item.ExamineImage)
}

// CloseExamine returns to the scene. It does nothing when no overlay is
// open.
func (c *Controller) CloseExamine() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeExamine()
}

func (c *Controller) closeExamine() {
	c.examining = false
	c.overlay = overlay{}
}

// ExamineOffer examines a good on a store's shelf
func (c *Controller) ExamineOffer(storeID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.stores.Catalog().Get(storeID); err != nil {
		c.logger.Warn("unknown store", zap.String("store_id", storeID))
		return err
	}
	item, err := c.catalog.Get(itemID)
	if err != nil {
		c.logger.Warn("item not found", zap.String("item_id", itemID))
		return err
	}
	return c.examineItem(item)
}
