// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package property provides the named, typed data that flows
// between tasks: interned identifiers ([ID]), type-erased values
// with checked extraction ([Value], [As]), parameter declarations
// ([Spec]), and chained scopes of bindings with shadowing ([Store]).
package property
