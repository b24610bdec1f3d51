package header

// Dump serializes every pair in list into buf as "Name: Value\r\n" lines, in
// arrival order, and returns the grown buffer.
func Dump(list *List, buf []byte) []byte {
	it := list.Iter()

	for it.Next() {
		p := it.Value()
		buf = append(buf, p.Name...)
		buf = append(buf, ':', ' ')
		buf = append(buf, p.Value...)
		buf = append(buf, '\r', '\n')
	}

	return buf
}
