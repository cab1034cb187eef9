/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	lower (front) ->
tiny_py Operations (ir) ->
	verify ->
	format ->
MLIR Generic Text ->
	emit ->
stdout and output.mlir

Operation properties hold attributes (attr).
Op codes and builtin names come from the dialect registry (dialect).

*/
package compiler
