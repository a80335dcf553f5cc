package graphdef

// referenceYAML is the six-node demo graph. The cheapest route from A to E
// is A-B-C-D-E (cost 10), which beats the direct A-F-E (cost 11).
const referenceYAML = `
nodes:
  - { name: A, x: 250, y: 150 }
  - { name: B, x: 500, y: 150 }
  - { name: C, x: 500, y: 300 }
  - { name: D, x: 500, y: 450 }
  - { name: E, x: 375, y: 600 }
  - { name: F, x: 250, y: 450 }
edges:
  - { from: A, to: B, cost: 2 }
  - { from: A, to: F, cost: 5 }
  - { from: B, to: C, cost: 3 }
  - { from: C, to: A, cost: 3 }
  - { from: C, to: D, cost: 1 }
  - { from: D, to: E, cost: 4 }
  - { from: D, to: F, cost: 4 }
  - { from: F, to: E, cost: 6 }
`

// Reference returns the built-in demo graph definition.
func Reference() *Definition {
	def, err := Parse([]byte(referenceYAML))
	if err != nil {
		panic("graphdef: reference definition is invalid: " + err.Error())
	}
	return def
}
