// Package llvmdump renders a MAIG as LLVM IR: one function evaluating
// every PO from i1 PI parameters, returning them packed into an array.
// It exists purely as an independent cross-check — an auditor can feed
// the dump to any LLVM-based tool (opt, a SAT-backed constant folder)
// to confirm the rewriter's output against a representation the core
// never touches.
package llvmdump

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"aigrewrite/internal/maig"
)

// Dump builds an LLVM module containing a single function, maig_eval,
// that takes g.NumIns i1 parameters and returns a [g.NumOuts x i1] array
// of the PO values.
func Dump(g *maig.MAIG) *ir.Module {
	mod := ir.NewModule()

	params := make([]*ir.Param, g.NumIns)
	for i := range params {
		params[i] = ir.NewParam(fmt.Sprintf("pi%d", i+1), types.I1)
	}
	retType := types.NewArray(uint64(g.NumOuts), types.I1)
	fn := mod.NewFunc("maig_eval", retType, params...)
	entry := fn.NewBlock("entry")

	vals := make([]value.Value, len(g.Objs))
	vals[0] = constant.False
	for i := 1; i <= g.NumIns; i++ {
		vals[i] = params[i-1]
	}
	for id := g.FirstNode(); id < g.FirstPO(); id++ {
		vals[id] = andFanins(entry, vals, g.Objs[id].Fanins)
	}

	var agg value.Value = constant.NewUndef(retType)
	for i := 0; i < g.NumOuts; i++ {
		fl := g.Objs[g.FirstPO()+i].Fanins[0]
		agg = entry.NewInsertValue(agg, literalValue(entry, vals, fl), uint64(i))
	}
	entry.NewRet(agg)

	return mod
}

func literalValue(block *ir.Block, vals []value.Value, l maig.Lit) value.Value {
	v := vals[l.Var()]
	if l.Pol() == 1 {
		v = block.NewXor(v, constant.True)
	}
	return v
}

func andFanins(block *ir.Block, vals []value.Value, fanins []maig.Lit) value.Value {
	var acc value.Value = constant.True
	for _, fl := range fanins {
		acc = block.NewAnd(acc, literalValue(block, vals, fl))
	}
	return acc
}
