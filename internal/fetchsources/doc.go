// Package fetchsources adapts ports.BlogClient into the fetch.DataSource
// implementations the demo's handlers compose with fetch.Join/Collect/
// Traverse: one source per downstream endpoint (articles, authors, article
// metadata), each batching its GetXByIDs call over whatever id set the
// engine deduplicated in a round.
package fetchsources
