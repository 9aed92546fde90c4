package models

import "log/slog"

// PlaintextSecret is a password as typed by the user. It prints as a
// placeholder so it cannot leak through fmt or slog.
type PlaintextSecret string

const redacted = "[REDACTED]"

func (PlaintextSecret) String() string { return redacted }

func (p PlaintextSecret) GoString() string { return redacted }

func (PlaintextSecret) LogValue() slog.Value { return slog.StringValue(redacted) }

// Bytes exposes the raw secret to hashing code.
func (p PlaintextSecret) Bytes() []byte { return []byte(p) }

// HashedSecret is an irreversible password hash as stored.
type HashedSecret string

// SignedToken is a compact, signed JWT.
type SignedToken string
