package common

// UnknownStr is the display value of enum values without a name.
const UnknownStr = "unknown"
