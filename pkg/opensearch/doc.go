// Package opensearch connects to an OpenSearch cluster and indexes sign in
// audit events into it through the bulk API.
//
// Connect pings the cluster before returning the client; Healthcheck wraps
// the same ping for readiness probes. AuditStore implements the audit
// package's BatchWriter, so it is normally used behind audit.NewAsyncWriter:
//
//	client, err := opensearch.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	w := audit.NewAsyncWriter(opensearch.NewAuditStore(client, cfg), auditCfg, log)
//	defer w.Close(ctx)
//
// Event IDs are used as document IDs, so retrying a batch overwrites
// instead of duplicating.
package opensearch
