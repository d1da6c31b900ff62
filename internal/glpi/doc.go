// Package glpi implements the GLPI REST operation adapter core.
//
// The adapter maps an operation identifier ("GET /Ticket/{id}") plus a bag of
// per-item parameter values onto an HTTP call against a GLPI high-level API
// deployment, handling:
//   - Routing each parameter to its destination (path, query, header, body)
//   - Dropping values the host serialized as empty placeholders
//   - OAuth2 password-grant token acquisition with batch-level caching
//   - Normalizing responses into one record per result element
//
// The field-descriptor index is built once from the GLPI OpenAPI document
// (see BuildIndex) and is read-only afterward; it may be shared across
// concurrent dispatchers.
package glpi
