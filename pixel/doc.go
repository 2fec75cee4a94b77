// Package pixel implements the native sample codecs and the display
// transforms applied to decoded grayscale sample grids.
//
// Importing the package registers the 8, 12 and 16 bit unpackers with the
// default codec registry. All functions are pure and safe for concurrent use
// on independent inputs.
package pixel
