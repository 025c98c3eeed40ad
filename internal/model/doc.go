// Package model defines the data structures shared by SmartPass packages.
//
// This package contains the following main types:
//   - AttackResult: The outcome record produced by both attack engines
//   - TerminationReason: Why an attack engine stopped
//   - Label: The ordered password strength classes
//   - AuditReport: Everything an audit learned about one digest
//
// It also defines the error categories (validation, precondition, resource)
// that every package-level sentinel error belongs to.
package model
