// Package domain contains the core business entities of the tasks API:
// tasks, their statuses and drafts/patches, users as seen by the directory,
// and the tagged Error type shared by every layer.
//
// It has no knowledge of HTTP, SQL or any other delivery or storage mechanism.
package domain
