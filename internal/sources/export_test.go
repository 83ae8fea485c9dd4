// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import "testing"

// UseEndpoints points both adapters at test servers for the rest of t.
func UseEndpoints(t *testing.T, openAlex, openFDA string) {
	t.Helper()
	oldAlex, oldFDA := openAlexWorksBase, openFDALabelBase
	openAlexWorksBase, openFDALabelBase = openAlex, openFDA
	t.Cleanup(func() { openAlexWorksBase, openFDALabelBase = oldAlex, oldFDA })
}
