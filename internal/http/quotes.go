package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koreader-utils/quotescan/internal/scheduler"
	"github.com/koreader-utils/quotescan/internal/store"
)

// QuoteController serves harvested quotes and triggers new harvests. It is
// the display/dispatch collaborator for the quote store.
type QuoteController struct {
	store     *store.Store
	harvester scheduler.Harvester
}

func NewQuoteController(store *store.Store, harvester scheduler.Harvester) *QuoteController {
	return &QuoteController{store: store, harvester: harvester}
}

// Random returns one quote drawn uniformly from the store.
func (q *QuoteController) Random(c *gin.Context) {
	record, err := q.store.Random()
	if err != nil {
		if errors.Is(err, store.ErrEmpty) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no quotes harvested yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, record)
}

// List returns every quote currently in the store.
func (q *QuoteController) List(c *gin.Context) {
	records, err := q.store.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(records),
		"quotes": records,
	})
}

// Scan triggers a synchronous harvest and reports the outcome. The count is
// reported even when persisting the store failed.
func (q *QuoteController) Scan(c *gin.Context) {
	if q.harvester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scanning is not configured"})
		return
	}

	result, err := q.harvester.Harvest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": err.Error(),
			"found": result.Found,
			"saved": result.Saved,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
