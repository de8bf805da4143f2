package imap

// CapChildren is the capability advertised by servers that report child state in LIST responses (RFC 3348).
const CapChildren = "CHILDREN"
