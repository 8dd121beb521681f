package cache

import (
	"encoding/json"
	"time"

	"github.com/modelriver/doccache/internal/utils"
	"github.com/modelriver/doccache/pkg/models"
)

func encodeDocument(doc *models.CacheDocument) ([]byte, error) {
	body, err := utils.MarshalJSON(doc)
	if err != nil {
		return nil, models.NewSerializationError("cache document is not serializable", err)
	}
	return body, nil
}

func decodeDocument(id string, body []byte) (*models.CacheDocument, error) {
	var doc models.CacheDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, models.NewDeserializationError(id, err)
	}
	return &doc, nil
}

// buildDocument assembles a fresh document for key, honoring the config's
// field toggles. The canonical params string is stored rather than the raw
// params so the document stays key-derivable.
func buildDocument(cfg models.CacheConfig, input, canonical string) *models.CacheDocument {
	doc := &models.CacheDocument{}
	if cfg.StoreInput {
		doc.Input = input
	}
	if cfg.StoreParams {
		doc.Params = canonical
	}
	if cfg.StoreTimestamp {
		doc.Timestamp = time.Now().UTC()
	}
	if len(cfg.Metadata) > 0 {
		doc.Metadata = cfg.Metadata
	}
	return doc
}
