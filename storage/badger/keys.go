package badger

import "fmt"

// Key prefixes for different data types
const (
	documentPrefix       = "docrec"
	documentTenantPrefix = "doctena"
	progressPrefix       = "progress"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// makeTenantKey generates a composite key for the tenant index.
// Format: prefix:tenantID:documentID
func makeTenantKey(tenantID, documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentTenantPrefix, tenantID, documentID))
}

// makePartialTenantKey generates a partial key for tenant scans.
// Format: prefix:tenantID:
func makePartialTenantKey(tenantID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentTenantPrefix, tenantID))
}

// makeProgressKey generates a key for a document's progress snapshot.
func makeProgressKey(documentID string) []byte {
	return []byte(fmt.Sprintf("%s:%s", progressPrefix, documentID))
}
