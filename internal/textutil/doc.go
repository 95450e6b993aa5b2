// Package textutil sanitizes text for use in file names.
//
// SanitizeFileName removes characters that are unsafe on common
// filesystems; RestrictFileName additionally folds to ASCII and replaces
// spaces so names survive shells and older tools; SanitizeToken produces
// lowercase identifiers such as template placeholder names.
package textutil
