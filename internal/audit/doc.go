// Package audit records security-relevant activity (registrations, logins,
// project changes) in the audit_logs table and serves it back, newest first.
package audit
