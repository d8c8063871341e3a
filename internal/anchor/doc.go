// Package anchor encodes instructions for and decodes accounts owned by
// programs built with the Anchor framework.
//
// Instruction data is an 8-byte discriminator, sha256("global:<name>")[:8],
// followed by the Borsh encoding of the arguments. Account data starts with
// sha256("account:<Name>")[:8] followed by the Borsh encoding of the struct.
package anchor
