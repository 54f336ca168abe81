// Package printing renders pharmacy documents to PDF.
//
// Purchase orders are laid out with html/template, printed by a headless
// Chrome driven over the DevTools protocol and handed to a DocumentStore
// which returns the URL recorded on the order.
package printing
