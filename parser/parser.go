package parser

import (
	"github.com/coregx/goonig/ast"
	"github.com/coregx/goonig/encoding"
	"github.com/coregx/goonig/onigerr"
	"github.com/coregx/goonig/profile"
)

// Result carries the name table and capture count produced alongside the
// ast.Node tree, information the compiler needs but that does not belong
// on Node itself.
type Result struct {
	NumMem    int
	Names     map[string][]int
	NameOrder []string
}

// Parser holds the mutable state of one top-to-bottom parse: the lexer
// cursor, the name table being built, and the deferred backref/call
// nodes the post-parse link pass resolves once every group number and
// name is known.
type Parser struct {
	lex  *lexer
	enc  encoding.Encoding
	prof profile.Profile
	cfg  Config

	options ast.OptionFlags // current effective option scope
	numMem  int
	names   *nameTable

	regNumNodes map[int]*ast.Node
	backrefs    []*ast.Node
	calls       []*ast.Node

	depth int
}

// Parse parses pattern under enc/prof into an ast.Node tree, running the
// post-parse link pass (backref/call resolution, Parent pointers,
// recursion marking) before returning.
func Parse(pattern []byte, options ast.OptionFlags, enc encoding.Encoding, prof profile.Profile, cfg Config) (*ast.Node, *Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	p := &Parser{
		enc:         enc,
		prof:        prof,
		cfg:         cfg,
		options:     options,
		names:       newNameTable(),
		regNumNodes: map[int]*ast.Node{},
	}
	p.lex = newLexer(pattern, enc, prof, options.Has(ast.OptionExtend))

	root, err := p.parseAlt()
	if err != nil {
		return nil, nil, err
	}
	tok, terr := p.lex.nextToken()
	if terr != nil {
		return nil, nil, terr
	}
	if tok.tag != tokEOF {
		return nil, nil, onigerr.AtRange(onigerr.ErrUnmatchedCloseParen, tok.pos, tok.pos)
	}
	if root == nil {
		root = &ast.Node{Kind: ast.KString}
	}

	if lerr := p.link(root); lerr != nil {
		return nil, nil, lerr
	}
	ast.LinkParents(root)

	res := &Result{NumMem: p.numMem, Names: p.names.byName, NameOrder: p.names.order}
	return root, res, nil
}

func (p *Parser) enterDepth() *onigerr.Error {
	p.depth++
	if p.depth > p.cfg.MaxParseDepth {
		return onigerr.New(onigerr.ErrParseDepthLimit)
	}
	return nil
}

func (p *Parser) leaveDepth() { p.depth-- }

func (p *Parser) nextRegNum() int {
	p.numMem++
	return p.numMem
}

func (p *Parser) shouldCapturePlainGroup() bool {
	if p.options.Has(ast.OptionCaptureGroup) {
		return true
	}
	return !p.options.Has(ast.OptionDontCaptureGroup)
}

// parseAlt parses seq ('|' seq)*, right-recursive.
func (p *Parser) parseAlt() (*ast.Node, *onigerr.Error) {
	if err := p.enterDepth(); err != nil {
		return nil, err
	}
	defer p.leaveDepth()

	first, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	tok, terr := p.lex.peekToken()
	if terr != nil {
		return nil, terr
	}
	if tok.tag != tokAlt {
		return first, nil
	}
	p.lex.nextToken()
	rest, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	return &ast.Node{Kind: ast.KAlt, Car: first, Cdr: rest}, nil
}

// parseSeq parses atom*, building a right-recursive KList chain. Adjacent
// literal-string atoms are coalesced into a single KString node, mirroring
// literal-run coalescing at the AST layer instead of
// leaving it to the compiler.
func (p *Parser) parseSeq() (*ast.Node, *onigerr.Error) {
	var atoms []*ast.Node
	for {
		tok, terr := p.lex.peekToken()
		if terr != nil {
			return nil, terr
		}
		if tok.tag == tokEOF || tok.tag == tokAlt || tok.tag == tokSubexpClose {
			break
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		if atom == nil {
			continue
		}
		if n := len(atoms); n > 0 && atom.Kind == ast.KString && atoms[n-1].Kind == ast.KString &&
			atom.Crude == atoms[n-1].Crude {
			atoms[n-1].Bytes = append(atoms[n-1].Bytes, atom.Bytes...)
			continue
		}
		atoms = append(atoms, atom)
	}
	switch len(atoms) {
	case 0:
		return nil, nil
	case 1:
		return atoms[0], nil
	}
	var node *ast.Node
	for i := len(atoms) - 1; i >= 0; i-- {
		node = &ast.Node{Kind: ast.KList, Car: atoms[i], Cdr: node}
	}
	return node, nil
}

// parseAtom parses one primary, then an optional trailing quantifier.
func (p *Parser) parseAtom() (*ast.Node, *onigerr.Error) {
	primary, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if primary == nil {
		return nil, nil
	}
	tok, terr := p.lex.peekToken()
	if terr != nil {
		return nil, terr
	}
	switch tok.tag {
	case tokRepeat:
		p.lex.nextToken()
		min, max := repeatBounds(tok.ch)
		return p.makeQuantifier(primary, min, max, !tok.lazy, tok.possessive, tok.pos)
	case tokInterval:
		p.lex.nextToken()
		return p.makeQuantifier(primary, tok.min, tok.max, !tok.lazy, tok.possessive, tok.pos)
	default:
		return primary, nil
	}
}

func repeatBounds(c byte) (min, max int) {
	switch c {
	case '*':
		return 0, ast.Unbounded
	case '+':
		return 1, ast.Unbounded
	default: // '?'
		return 0, 1
	}
}

func (p *Parser) makeQuantifier(body *ast.Node, min, max int, greedy, possessive bool, pos int) (*ast.Node, *onigerr.Error) {
	if body == nil || isZeroWidthAnchor(body) {
		return nil, onigerr.AtRange(onigerr.ErrTargetOfRepeatOperator, pos, pos)
	}
	q := &ast.Node{Kind: ast.KQuantifier, Body: body, Min: min, Max: max, Greedy: greedy, Possessive: possessive}
	q = ast.ReduceNestedQuantifier(q)
	return q, nil
}

func isZeroWidthAnchor(n *ast.Node) bool {
	if n.Kind != ast.KAnchor {
		return false
	}
	switch n.AnchorKind {
	case ast.AnchorLookAhead, ast.AnchorNegLookAhead, ast.AnchorLookBehind, ast.AnchorNegLookBehind:
		return false
	default:
		return true
	}
}

func (p *Parser) parsePrimary() (*ast.Node, *onigerr.Error) {
	tok, terr := p.lex.nextToken()
	if terr != nil {
		return nil, terr
	}
	switch tok.tag {
	case tokChar:
		off := tok.pos
		if p.lex.src[off] != tok.ch {
			off++ // escaped literal: its bytes follow the backslash
		}
		return &ast.Node{Kind: ast.KString, Bytes: p.lex.src[off : off+tok.n]}, nil
	case tokAnyChar:
		return &ast.Node{Kind: ast.KCType, CType: ast.CTypeAny}, nil
	case tokCharType:
		return &ast.Node{Kind: ast.KCType, CType: tok.ctype, CTypeNegate: tok.negate}, nil
	case tokAnchor:
		return &ast.Node{Kind: ast.KAnchor, AnchorKind: tok.anchor}, nil
	case tokBackRef:
		n := &ast.Node{Kind: ast.KBackRef, RefName: tok.name, NestLevel: tok.level, HasLevel: tok.hasLvl}
		if tok.name == "" {
			n.GroupNums = []int{tok.num}
		}
		p.backrefs = append(p.backrefs, n)
		return n, nil
	case tokCall:
		n := &ast.Node{Kind: ast.KCall, CallName: tok.name, CallNum: tok.num}
		p.calls = append(p.calls, n)
		return n, nil
	case tokQuoteOpen, tokQuoteClose:
		return nil, nil
	case tokOpenCC:
		n, err := p.parseCharClass()
		if err != nil {
			return nil, err
		}
		return n, nil
	case tokSubexpOpen:
		return p.parseGroupBody(tok)
	case tokRepeat, tokInterval:
		return nil, onigerr.AtRange(onigerr.ErrNestedRepeatOperator, tok.pos, tok.pos)
	case tokSubexpClose:
		return nil, onigerr.AtRange(onigerr.ErrUnmatchedCloseParen, tok.pos, tok.pos)
	case tokEOF:
		return nil, onigerr.AtRange(onigerr.ErrEndPatternAtLeftBrace, tok.pos, tok.pos)
	default:
		return nil, onigerr.AtRange(onigerr.ErrParserBug, tok.pos, tok.pos)
	}
}

func (p *Parser) expectClose() *onigerr.Error {
	tok, terr := p.lex.nextToken()
	if terr != nil {
		return terr
	}
	if tok.tag != tokSubexpClose {
		return onigerr.AtRange(onigerr.ErrUnmatchedParen, tok.pos, tok.pos)
	}
	return nil
}

func (p *Parser) parseGroupBody(tok ptoken) (*ast.Node, *onigerr.Error) {
	if err := p.enterDepth(); err != nil {
		return nil, err
	}
	defer p.leaveDepth()

	switch tok.groupKind {
	case groupPlain:
		capture := p.shouldCapturePlainGroup()
		var regnum int
		if capture {
			regnum = p.nextRegNum()
		}
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		if !capture {
			return &ast.Node{Kind: ast.KBag, BagType: ast.BagOption, Body: inner}, nil
		}
		n := &ast.Node{Kind: ast.KBag, BagType: ast.BagMemory, RegNum: regnum, Body: inner}
		p.regNumNodes[regnum] = n
		return n, nil

	case groupNonCapture:
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KBag, BagType: ast.BagOption, Body: inner}, nil

	case groupAtomic:
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KBag, BagType: ast.BagStopBacktrack, Body: inner}, nil

	case groupNamed:
		regnum := p.nextRegNum()
		if derr := p.names.define(tok.groupName, regnum, p.cfg.RejectDuplicateNames); derr != nil {
			return nil, derr
		}
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		n := &ast.Node{Kind: ast.KBag, BagType: ast.BagMemory, RegNum: regnum, Name: tok.groupName}
		n.Status |= ast.StatusNamed
		n.Body = inner
		p.regNumNodes[regnum] = n
		return n, nil

	case groupLookAhead, groupNegLookAhead, groupLookBehind, groupNegLookBehind:
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KAnchor, AnchorKind: lookaroundKind(tok.groupKind), LookBody: inner}, nil

	case groupOptionScope:
		if tok.groupQuote == ')' {
			// bare (?ims-ims) directive: changes p.options for the rest of
			// the enclosing scope, produces no atom.
			p.options = p.options.With(tok.optsOn).Without(tok.optsOff)
			return nil, nil
		}
		saved := p.options
		p.options = p.options.With(tok.optsOn).Without(tok.optsOff)
		inner, err := p.parseAlt()
		p.options = saved
		if err != nil {
			return nil, err
		}
		if err := p.expectClose(); err != nil {
			return nil, err
		}
		return &ast.Node{Kind: ast.KBag, BagType: ast.BagOption, OptionsOn: tok.optsOn, OptionsOff: tok.optsOff, Body: inner}, nil

	case groupIfElse:
		return p.parseIfElse()

	default:
		return nil, onigerr.AtRange(onigerr.ErrParserBug, tok.pos, tok.pos)
	}
}

func lookaroundKind(gk groupKind) ast.AnchorKind {
	switch gk {
	case groupLookAhead:
		return ast.AnchorLookAhead
	case groupNegLookAhead:
		return ast.AnchorNegLookAhead
	case groupLookBehind:
		return ast.AnchorLookBehind
	default:
		return ast.AnchorNegLookBehind
	}
}

// parseIfElse parses the condition and then/else branches of
// (?(cond)then|else), already past "(?(".
func (p *Parser) parseIfElse() (*ast.Node, *onigerr.Error) {
	l := p.lex
	start := l.pos
	if !p.prof.Has(profile.FeatureConditional) {
		return nil, onigerr.AtRange(onigerr.ErrInvalidIfElseSyntax, start, start)
	}

	condGroup := 0
	condBackRef := false
	switch {
	case !l.eof() && (l.src[l.pos] == '<' || l.src[l.pos] == '\''):
		closeDelim := byte('>')
		if l.src[l.pos] == '\'' {
			closeDelim = '\''
		}
		l.pos++
		name, ok := l.scanUntil(closeDelim)
		if !ok {
			return nil, onigerr.AtRange(onigerr.ErrInvalidIfElseSyntax, start, l.pos)
		}
		nums, known := p.names.lookup(name)
		if !known {
			return nil, onigerr.AtRangeName(onigerr.ErrUndefinedNameReference, start, l.pos, name)
		}
		condGroup = nums[0]
	case !l.eof() && (l.src[l.pos] >= '0' && l.src[l.pos] <= '9'):
		n, _, next := scanDigits(l.src, l.pos)
		l.pos = next
		condGroup = n
	default:
		return nil, onigerr.AtRange(onigerr.ErrInvalidIfElseSyntax, start, l.pos)
	}
	if l.eof() || l.src[l.pos] != ')' {
		return nil, onigerr.AtRange(onigerr.ErrInvalidIfElseSyntax, start, l.pos)
	}
	l.pos++ // consume ')'

	then, err := p.parseSeq()
	if err != nil {
		return nil, err
	}
	tok2, terr := p.lex.peekToken()
	if terr != nil {
		return nil, terr
	}
	var elseNode *ast.Node
	if tok2.tag == tokAlt {
		p.lex.nextToken()
		elseNode, err = p.parseSeq()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectClose(); err != nil {
		return nil, err
	}
	return &ast.Node{
		Kind: ast.KBag, BagType: ast.BagIfElse,
		Then: then, Else: elseNode,
		CondGroup: condGroup, CondBackRef: condBackRef,
	}, nil
}
