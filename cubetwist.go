// Package cubetwist is the core of an N×N×N twisty puzzle: which cubies
// make up a layer, a queue that animates layer turns one at a time, a drag
// gesture state machine, scrambles, and a facelet state string.
//
// # Features
//
//   - 2×2, 3×3, 4×4 and generic sizes up to 7×7
//   - Animated, serialized layer turns with snap to the grid
//   - Pointer drags that turn a layer or the whole puzzle
//   - Random scrambles without consecutive same-face turns
//   - Facelet state string and text net
//
// # Quick Start
//
//	p, err := cubetwist.New(cubetwist.WithSize(3))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
//
//	p.Subscribe(func(ev cubetwist.Event) {
//	    if ev.Kind == cubetwist.EventRotationDone {
//	        fmt.Println("Move:", ev.Move.Notation())
//	    }
//	})
//
//	p.Do("R", "U", "R'", "U'")
//	go p.Run(ctx) // or call p.Tick() from your own frame loop
//
// # Instant Moves
//
// Apply turns layers without animation, which is handy for tests and
// replays:
//
//	p.Apply(cubetwist.R, cubetwist.U, cubetwist.RPrime, cubetwist.UPrime)
//	fmt.Println("Solved:", p.IsSolved())
//
// # Frames of Reference
//
// Face letters are read relative to the current view: after the whole
// puzzle has been turned, "F" is whichever layer faces the viewer. Events,
// the move history and State are expressed in the puzzle's own frame, so
// replaying the history on a fresh puzzle reproduces the state.
package cubetwist
