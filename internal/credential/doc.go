// Package credential generates demonstration credentials.
//
// A generated Credential carries the random password, its AES-256-CBC
// ciphertext with the key and IV used, and its digest under the shared
// hasher. Byte values are hex encoded so rows written by earlier versions
// of the service stay readable.
package credential
