// Package tool holds the core tooling contract for dynamic tool discovery:
// the declarative Spec describing one tool, the side-channel metadata table
// for plain handler functions, the strict signature validators, and the
// registration gate that enforces name uniqueness before the host runtime is
// asked to create a live binding.
//
// Authoring patterns enabled by this package, in discovery precedence order:
//  1. register = "Delegate" in a manifest: the delegate handles full control
//  2. tool blocks in a manifest: an explicit, ordered list of Specs
//  3. tools = [...] in a manifest: a bare list of handler names
//  4. fallback: pack functions with attached Meta or a 'tool_' name prefix
//
// The package deliberately knows nothing about HCL or HTTP. The discovery
// engine imports it to build and validate Specs; the host runtime imports it
// to invoke them.
package tool
