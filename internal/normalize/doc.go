// Package normalize converts provider-specific encodings into the unified
// vocabulary: category icons, weather icon categories and condition text,
// 12-hour display times, tide classifications and the moon phase.
//
// Every lookup here is total: unknown inputs map to a documented default.
package normalize
