package disasm

import "strconv"

// SPIR-V opcodes with special operand handling.
const (
	opSource           = 3
	opName             = 5
	opMemberName       = 6
	opString           = 7
	opExtension        = 10
	opExtInstImport    = 11
	opExtInst          = 12
	opMemoryModel      = 14
	opEntryPoint       = 15
	opExecutionMode    = 16
	opCapability       = 17
	opTypeInt          = 21
	opTypeFloat        = 22
	opTypeVector       = 23
	opTypeMatrix       = 24
	opTypePointer      = 32
	opConstant         = 43
	opFunction         = 54
	opFunctionParam    = 55
	opFunctionEnd      = 56
	opVariable         = 59
	opDecorate         = 71
	opMemberDecorate   = 72
	opVectorShuffle    = 79
	opCompositeExtract = 81
	opCompositeInsert  = 82
	opLoopMerge        = 246
	opSelectionMerge   = 247
	opLabel            = 248
)

var opcodeNames = map[uint16]string{
	0: "OpNop", 1: "OpUndef", 2: "OpSourceContinued", 3: "OpSource",
	4: "OpSourceExtension", 5: "OpName", 6: "OpMemberName", 7: "OpString",
	10: "OpExtension", 11: "OpExtInstImport", 12: "OpExtInst",
	14: "OpMemoryModel", 15: "OpEntryPoint", 16: "OpExecutionMode",
	17: "OpCapability", 19: "OpTypeVoid", 20: "OpTypeBool",
	21: "OpTypeInt", 22: "OpTypeFloat", 23: "OpTypeVector",
	24: "OpTypeMatrix", 25: "OpTypeImage", 26: "OpTypeSampler",
	27: "OpTypeSampledImage", 28: "OpTypeArray", 29: "OpTypeRuntimeArray",
	30: "OpTypeStruct", 32: "OpTypePointer", 33: "OpTypeFunction",
	41: "OpConstantTrue", 42: "OpConstantFalse", 43: "OpConstant",
	44: "OpConstantComposite", 46: "OpConstantNull",
	54: "OpFunction", 55: "OpFunctionParameter", 56: "OpFunctionEnd",
	57: "OpFunctionCall", 59: "OpVariable", 61: "OpLoad", 62: "OpStore",
	65: "OpAccessChain", 68: "OpArrayLength", 71: "OpDecorate", 72: "OpMemberDecorate",
	77: "OpVectorExtractDynamic", 78: "OpVectorInsertDynamic",
	79: "OpVectorShuffle", 80: "OpCompositeConstruct", 81: "OpCompositeExtract",
	82: "OpCompositeInsert", 83: "OpCopyObject", 84: "OpTranspose",
	86: "OpSampledImage", 87: "OpImageSampleImplicitLod",
	88: "OpImageSampleExplicitLod", 89: "OpImageSampleDrefImplicitLod",
	90: "OpImageSampleDrefExplicitLod", 95: "OpImageFetch",
	96: "OpImageGather", 97: "OpImageDrefGather", 98: "OpImageRead",
	99: "OpImageWrite", 100: "OpImage", 103: "OpImageQuerySizeLod",
	104: "OpImageQuerySize", 106: "OpImageQueryLevels", 107: "OpImageQuerySamples",
	109: "OpConvertFToU", 110: "OpConvertFToS", 111: "OpConvertSToF",
	112: "OpConvertUToF", 113: "OpUConvert", 114: "OpSConvert",
	115: "OpFConvert", 124: "OpBitcast",
	126: "OpSNegate", 127: "OpFNegate", 128: "OpIAdd", 129: "OpFAdd",
	130: "OpISub", 131: "OpFSub", 132: "OpIMul", 133: "OpFMul",
	134: "OpUDiv", 135: "OpSDiv", 136: "OpFDiv", 137: "OpUMod",
	138: "OpSRem", 139: "OpSMod", 140: "OpFRem", 141: "OpFMod",
	142: "OpVectorTimesScalar", 143: "OpMatrixTimesScalar",
	144: "OpVectorTimesMatrix", 145: "OpMatrixTimesVector",
	146: "OpMatrixTimesMatrix", 147: "OpOuterProduct", 148: "OpDot",
	164: "OpAny", 165: "OpAll", 166: "OpIsNan", 167: "OpIsInf",
	174: "OpLogicalEqual", 175: "OpLogicalNotEqual",
	176: "OpLogicalOr", 177: "OpLogicalAnd", 178: "OpLogicalNot",
	179: "OpSelect", 180: "OpIEqual", 181: "OpINotEqual",
	182: "OpUGreaterThan", 183: "OpSGreaterThan", 184: "OpUGreaterThanEqual",
	185: "OpSGreaterThanEqual", 186: "OpULessThan", 187: "OpSLessThan",
	188: "OpULessThanEqual", 189: "OpSLessThanEqual",
	190: "OpFOrdEqual", 191: "OpFUnordEqual", 192: "OpFOrdNotEqual",
	193: "OpFUnordNotEqual", 194: "OpShiftRightLogical", 195: "OpShiftRightArithmetic",
	196: "OpShiftLeftLogical", 197: "OpBitwiseOr", 198: "OpBitwiseXor",
	199: "OpBitwiseAnd", 200: "OpNot", 201: "OpBitFieldInsert",
	202: "OpBitFieldSExtract", 203: "OpBitFieldUExtract",
	204: "OpBitReverse", 205: "OpBitCount",
	207: "OpDPdx", 208: "OpDPdy", 209: "OpFwidth",
	224: "OpControlBarrier", 225: "OpMemoryBarrier",
	227: "OpAtomicLoad", 228: "OpAtomicStore", 229: "OpAtomicExchange",
	234: "OpAtomicIAdd", 235: "OpAtomicISub",
	245: "OpPhi", 246: "OpLoopMerge", 247: "OpSelectionMerge",
	248: "OpLabel", 249: "OpBranch", 250: "OpBranchConditional",
	251: "OpSwitch", 252: "OpKill", 253: "OpReturn", 254: "OpReturnValue",
	255: "OpUnreachable",
}

var capabilities = map[uint32]string{
	0: "Matrix", 1: "Shader", 2: "Geometry", 3: "Tessellation",
	9: "Float16", 10: "Float64", 11: "Int64", 22: "Int16",
	32: "CullDistance", 31: "ClipDistance", 49: "ImageQuery",
	50: "DerivativeControl", 56: "MultiViewport",
}

var storageClasses = map[uint32]string{
	0: "UniformConstant", 1: "Input", 2: "Uniform", 3: "Output",
	4: "Workgroup", 5: "CrossWorkgroup", 6: "Private", 7: "Function",
	8: "Generic", 9: "PushConstant", 10: "AtomicCounter", 11: "Image",
	12: "StorageBuffer",
}

var decorations = map[uint32]string{
	0: "RelaxedPrecision", 1: "SpecId", 2: "Block", 3: "BufferBlock",
	4: "RowMajor", 5: "ColMajor", 6: "ArrayStride", 7: "MatrixStride",
	11: "BuiltIn", 13: "NoPerspective", 14: "Flat", 16: "Centroid",
	17: "Sample", 18: "Invariant", 24: "NonWritable", 25: "NonReadable",
	30: "Location", 33: "Binding", 34: "DescriptorSet", 35: "Offset",
}

var builtins = map[uint32]string{
	0: "Position", 1: "PointSize", 14: "FragCoord", 15: "PointCoord",
	16: "FrontFacing", 18: "SamplePosition", 19: "SampleMask", 22: "FragDepth",
	24: "NumWorkgroups", 26: "WorkgroupId", 27: "LocalInvocationId",
	28: "GlobalInvocationId", 29: "LocalInvocationIndex",
	42: "VertexIndex", 43: "InstanceIndex",
}

var executionModels = map[uint32]string{
	0: "Vertex", 1: "TessellationControl", 2: "TessellationEvaluation",
	3: "Geometry", 4: "Fragment", 5: "GLCompute", 6: "Kernel",
}

var executionModes = map[uint32]string{
	7: "OriginUpperLeft", 8: "OriginLowerLeft", 9: "EarlyFragmentTests",
	12: "DepthReplacing", 17: "LocalSize",
}

// resultKinds classifies how an opcode's leading operands are shaped.
type resultKind uint8

const (
	noResult    resultKind = iota
	resultOnly             // %id = Op ...
	typedResult            // %id = Op %type ...
)

func kindOf(op uint16) resultKind {
	switch {
	case op == opExtInstImport || op == opString || op == opLabel:
		return resultOnly
	case op >= 19 && op <= 39:
		return resultOnly
	case op == 1 || op == opExtInst:
		return typedResult
	case op >= 41 && op <= 52:
		return typedResult
	case op == opFunction || op == opFunctionParam || op == 57 || op == opVariable:
		return typedResult
	case op >= 60 && op <= 70 && op != 62 && op != 63 && op != 64:
		return typedResult
	case op >= 77 && op <= 205:
		return typedResult
	case op >= 207 && op <= 223:
		return typedResult
	case op >= 227 && op <= 242 && op != 228:
		return typedResult
	case op == 245:
		return typedResult
	}
	return noResult
}

func opcodeName(op uint16) string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return "Op" + strconv.Itoa(int(op))
}

func lookup(m map[uint32]string, v uint32) string {
	if s, ok := m[v]; ok {
		return s
	}
	return strconv.FormatUint(uint64(v), 10)
}
