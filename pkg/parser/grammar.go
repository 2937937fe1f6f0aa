package parser

import (
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

var coreGrammar = buildCoreGrammar()

// CoreGrammar returns the rule programs for the Core language. The table is
// built once and shared; callers must not modify it.
func CoreGrammar() Grammar { return coreGrammar }

func buildCoreGrammar() Grammar {
	declFirst := FirstSet{
		token.Integer:   ast.Decl,
		token.Object:    ast.Decl,
		token.Procedure: ast.Function,
	}
	stmtFirst := FirstSet{
		token.ID:      ast.Stmt,
		token.If:      ast.Stmt,
		token.For:     ast.Stmt,
		token.Print:   ast.Stmt,
		token.Read:    ast.Stmt,
		token.Integer: ast.Stmt,
		token.Object:  ast.Stmt,
		token.Begin:   ast.Stmt,
	}
	condFirst := FirstSet{
		token.Or:      ast.Cmpr,
		token.And:     ast.Cmpr,
		token.Not:     ast.Terminal,
		token.LSquare: ast.Terminal,
	}

	return Grammar{
		ast.Procedure: {
			ValidateSeq(token.Procedure, token.ID, token.Is),
			ParseIfMismatch(token.Begin, ast.DeclSeq),
			Validate(token.Begin),
			Parse(ast.StmtSeq),
			ValidateSeqFinal(token.End, token.EOS),
		},
		ast.DeclSeq: {
			ParseOrFail(declFirst, false),
			ParseIfStartValid(declFirst, false),
		},
		ast.StmtSeq: {
			Parse(ast.Stmt),
			ParseIfStartValid(stmtFirst, false),
		},
		ast.Decl: {
			ParseOrFail(FirstSet{token.Integer: ast.DeclInteger, token.Object: ast.DeclObj}, false),
		},
		ast.DeclInteger: {
			ValidateSeqFinal(token.Integer, token.ID, token.Semicolon),
		},
		ast.DeclObj: {
			ValidateSeqFinal(token.Object, token.ID, token.Semicolon),
		},
		ast.Function: {
			ValidateSeq(token.Procedure, token.ID, token.LParen, token.Object),
			Parse(ast.Parameters),
			ValidateSeq(token.RParen, token.Is),
			Parse(ast.StmtSeq),
			ValidateFinal(token.End),
		},
		ast.Parameters: {
			Validate(token.ID),
			CheckEnd(token.Comma, true),
		},
		ast.Stmt: {
			ParseOrFail(FirstSet{
				token.ID:      ast.Assign,
				token.If:      ast.If,
				token.For:     ast.Loop,
				token.Print:   ast.Print,
				token.Read:    ast.Read,
				token.Integer: ast.Decl,
				token.Object:  ast.Decl,
				token.Begin:   ast.Call,
			}, false),
		},
		ast.Call: {
			ValidateSeq(token.Begin, token.ID, token.LParen),
			Parse(ast.Parameters),
			ValidateCallEnd(token.RParen, token.Semicolon),
		},
		ast.Assign: {
			// ID : ID ;
			Validate(token.ID),
			Detect(token.Colon),
			Validate(token.ID),
			ValidateAssignment(),
			ValidateFinal(token.Semicolon),
			// ID [ STRING ] = expr ;
			StartAlternative(),
			Detect(token.LSquare),
			ValidateSeq(token.String, token.RSquare, token.Assign),
			Parse(ast.Expr),
			ValidateAssignment(),
			ValidateFinal(token.Semicolon),
			// ID = new object ( STRING , expr ) ;
			StartAlternative(),
			Validate(token.Assign),
			Detect(token.New),
			ValidateSeq(token.Object, token.LParen, token.String, token.Comma),
			Parse(ast.Expr),
			Validate(token.RParen),
			ValidateAssignment(),
			ValidateFinal(token.Semicolon),
			// ID = expr ;
			StartAlternative(),
			Parse(ast.Expr),
			ValidateFinal(token.Semicolon),
		},
		ast.Print: {
			ValidateSeq(token.Print, token.LParen),
			Parse(ast.Expr),
			ValidateSeqFinal(token.RParen, token.Semicolon),
		},
		ast.Read: {
			ValidateSeqFinal(token.Read, token.LParen, token.ID, token.RParen, token.Semicolon),
		},
		ast.If: {
			Validate(token.If),
			Parse(ast.Cond),
			Validate(token.Then),
			Parse(ast.StmtSeq),
			CheckEnd(token.End, false),
			Validate(token.Else),
			Parse(ast.StmtSeq),
			ValidateFinal(token.End),
		},
		ast.Loop: {
			ValidateSeq(token.For, token.LParen, token.ID, token.Assign),
			Parse(ast.Expr),
			Validate(token.Semicolon),
			Parse(ast.Cond),
			Validate(token.Semicolon),
			Parse(ast.Expr),
			ValidateSeq(token.RParen, token.Do),
			Parse(ast.StmtSeq),
			ValidateFinal(token.End),
		},
		ast.Cond: {
			ConsumeLeading(condFirst),
			Parse(ast.Cmpr),
			ParseIfStartValid(condFirst, true),
			ConsumeTrailing(token.RSquare, "["),
		},
		ast.Cmpr: {
			Parse(ast.Expr),
			ParseOrFail(FirstSet{token.Equal: ast.Expr, token.Less: ast.Expr}, true),
		},
		ast.Expr: {
			Parse(ast.Term),
			ParseIfStartValid(FirstSet{token.Add: ast.Term, token.Subtract: ast.Term}, true),
		},
		ast.Term: {
			Parse(ast.Factor),
			ParseIfStartValid(FirstSet{token.Multiply: ast.Factor, token.Divide: ast.Factor}, true),
		},
		ast.Factor: {
			// CONST
			CheckEnd(token.Const, false),
			// ( expr )
			Detect(token.LParen),
			Parse(ast.Expr),
			ValidateFinal(token.RParen),
			// ID | ID [ STRING ]
			StartAlternative(),
			Validate(token.ID),
			Detect(token.LSquare),
			ValidateVarType(semantic.Object),
			Validate(token.String),
			ValidateFinal(token.RSquare),
		},
	}
}
