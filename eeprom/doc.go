// Package eeprom reads and writes EEPROM image files and transfers them
// to and from a PLI controller.
//
// # File Format
//
// An image is a text file with one location per line, index and value as
// two hex digits each. Blank lines and lines starting with '#' are ignored:
//
//	# pli eeprom image
//	2B=18
//	2C=0F
//
// # Dump and Restore
//
//	img, err := eeprom.Dump(ctx, client, eeprom.Range(0x00, 0x3F))
//	_, err = img.WriteTo(f)
//
//	img, err := eeprom.Parse("controller.eeprom")
//	n, err := eeprom.Restore(ctx, client, img, true)
//
// Restore reads each location first and writes only those that differ.
package eeprom
