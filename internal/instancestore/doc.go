// Package instancestore keeps the constructed paint instance of each paint
// name.
//
// An instance is created lazily on the first draw of its name and is reused
// for every later draw of that name. The store never replaces an instance
// once one is stored, and it never stores anything for a name whose
// constructor threw.
package instancestore
