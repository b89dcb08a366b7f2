package formats

// ComputeCombos numbers the objects in place. ComboCount is the 1-based
// index of the combo an object belongs to, ComboNumber its 1-based
// position inside that combo.
//
// A combo starts at the first object, at every object with the new combo
// bit and after every spinner. Combo skip bits advance ComboCount further.
func ComputeCombos(objects []HitObject) {
	count, number := 0, 0
	afterSpinner := false
	for i := range objects {
		ho := &objects[i]
		if i == 0 || afterSpinner || ho.Type.NewCombo() {
			count++
			if i > 0 && ho.Type.NewCombo() {
				count += ho.Type.ComboSkip()
			}
			number = 0
		}
		number++
		ho.ComboCount = count
		ho.ComboNumber = number

		kind, _ := ho.Type.Kind()
		afterSpinner = kind == KindSpinner
	}
}
