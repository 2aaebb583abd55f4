// Package reviewflow provides a review queue and approval engine for
// generated content.
//
// Candidates are scored on ingestion and either auto approved or queued for
// a human decision. Human approvals are forwarded as training signals.
// Typical embedding:
//
//	srv, _ := reviewflow.New(ctx)
//	defer srv.Close()
//	item, _ := srv.Enqueue(ctx, candidate)
//	res, _ := srv.Approve(ctx, item.ContentID, "admin-1", approval.ApproveOptions{})
//
// The same operations are exposed over HTTP by transport/http and from the
// command line by cmd/reviewflow.
package reviewflow
