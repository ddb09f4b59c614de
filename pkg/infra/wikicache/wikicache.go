// Package wikicache provides storage backends for generated wikis.
package wikicache

import (
	"strings"

	"github.com/m-mizutani/repowiki/pkg/domain/model"
)

// docID derives a document/object name from the key. Slashes are not allowed
// in Firestore document ids and would create nested objects in Cloud Storage.
func docID(key model.WikiCacheKey) string {
	name := strings.TrimSuffix(key.FileName(), ".json")
	return strings.ReplaceAll(name, "/", "-")
}
