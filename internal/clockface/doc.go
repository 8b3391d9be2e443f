// Package clockface renders the 24-hour session clock as SVG.
//
// The face is a 400x400 dial centred on (200,200), drawn inside a 460x460
// viewBox translated by 30 so the hour labels fit. Hour h sits at angle
// h/24*360 - 90 degrees, so 00 is at the top and the dial runs clockwise.
package clockface
