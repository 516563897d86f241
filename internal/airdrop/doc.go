// Package airdrop defines the airdrop record served by the backend and the
// normalization applied to its loosely typed fields at decode time.
//
// Requirements and how-to steps arrive either as a JSON array of strings or
// as a JSON object of title/description pairs. Both decode into Entries,
// which renders as a single ordered []Entry regardless of the source shape.
// Any other shape decodes to an empty value rather than an error.
package airdrop
