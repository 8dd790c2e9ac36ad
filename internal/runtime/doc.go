// Package runtime locates the Node.js interpreter that runs the dashboard
// server, checks its version, and builds the argument list for an entry
// point. TypeScript entry points run through the tsx loader ("the shim");
// prebuilt JavaScript bundles run on plain node.
package runtime
