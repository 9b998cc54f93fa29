package tray

// iconData is a 16x16 PNG used as the menu bar template icon.
var iconData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x04, 0x00, 0x00, 0x00, 0xb5, 0xfa, 0x37, 0xea, 0x00, 0x00, 0x00,
	0x21, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x3b, 0xf8,
	0x8f, 0x5f, 0x12, 0x06, 0xc9, 0x51, 0xf0, 0x1f, 0x0b, 0x24, 0x20, 0x8d,
	0xa2, 0x84, 0x0e, 0x0a, 0x08, 0x3a, 0x72, 0x60, 0x01, 0x00, 0xc3, 0x7a,
	0x4e, 0xb2, 0x43, 0x43, 0x23, 0x80, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45,
	0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
