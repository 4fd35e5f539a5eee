// Copyright (c) 2026 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2026.8.12
//

package gdrop

const (
	PI = 3.1415926535897932 // Pi
	C  = 2.99792458e+17     // Speed of light [nm/s]

	NFREE = 9 // Number of unknowns in the free and gradient fall models {z0,v0,g0,a1..a6}
	NRED  = 7 // Number of unknowns in the reduced cross-check model {z0,v0,g0,a1..a4}
	NMOD  = 5 // Number of unknowns in the modulation model {z0,v0,mk,a5,a6}
)
