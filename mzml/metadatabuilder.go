package mzml

import (
	"time"

	"github.com/msspeclib/mzdata/cv"
	"github.com/msspeclib/mzdata/meta"
)

// buildMetadata converts the top-level mzML document children (everything
// but <run>'s spectrum/chromatogram lists) into a meta.Metadata.
func buildMetadata(root *node, groups *cv.GroupTable) meta.Metadata {
	var m meta.Metadata

	if fd, ok := root.first("fileDescription"); ok {
		m.FileDescription = buildFileDescription(fd, groups)
	}
	if swList, ok := root.first("softwareList"); ok {
		for _, swNode := range swList.all("software") {
			id, _ := swNode.attrs.get("id")
			version, _ := swNode.attrs.get("version")
			params, _ := paramsOf(swNode, groups)
			m.SoftwareList = append(m.SoftwareList, meta.Software{ID: id, Version: version, Params: params})
		}
	}
	if icList, ok := root.first("instrumentConfigurationList"); ok {
		for _, icNode := range icList.all("instrumentConfiguration") {
			m.InstrumentConfigurations = append(m.InstrumentConfigurations, buildInstrumentConfiguration(icNode, groups))
		}
	}
	if dpList, ok := root.first("dataProcessingList"); ok {
		for _, dpNode := range dpList.all("dataProcessing") {
			m.DataProcessingList = append(m.DataProcessingList, buildDataProcessing(dpNode, groups))
		}
	}
	if sampleList, ok := root.first("sampleList"); ok {
		for _, sNode := range sampleList.all("sample") {
			id, _ := sNode.attrs.get("id")
			name, _ := sNode.attrs.get("name")
			params, _ := paramsOf(sNode, groups)
			m.Samples = append(m.Samples, meta.Sample{ID: id, Name: name, Params: params})
		}
	}
	if runNode, ok := root.first("run"); ok {
		m.Run = buildRun(runNode, groups)
	}
	return m
}

func buildFileDescription(fd *node, groups *cv.GroupTable) meta.FileDescription {
	var out meta.FileDescription
	if content, ok := fd.first("fileContent"); ok {
		out.FileContent, _ = paramsOf(content, groups)
	}
	if srcList, ok := fd.first("sourceFileList"); ok {
		for _, srcNode := range srcList.all("sourceFile") {
			id, _ := srcNode.attrs.get("id")
			name, _ := srcNode.attrs.get("name")
			loc, _ := srcNode.attrs.get("location")
			params, _ := paramsOf(srcNode, groups)
			out.SourceFiles = append(out.SourceFiles, meta.SourceFile{ID: id, Name: name, Location: loc, Params: params})
		}
	}
	for _, contactNode := range fd.all("contact") {
		params, _ := paramsOf(contactNode, groups)
		out.Contacts = append(out.Contacts, params)
	}
	return out
}

func buildInstrumentConfiguration(icNode *node, groups *cv.GroupTable) meta.InstrumentConfiguration {
	id, _ := icNode.attrs.get("id")
	scanSettingsRef, _ := icNode.attrs.get("scanSettingsRef")
	ic := meta.InstrumentConfiguration{ID: id, ScanSettingsRef: scanSettingsRef}
	ic.Params, _ = paramsOf(icNode, groups)

	if compList, ok := icNode.first("componentList"); ok {
		order := 0
		for _, compName := range []string{"source", "analyzer", "detector"} {
			for _, compNode := range compList.all(compName) {
				params, _ := paramsOf(compNode, groups)
				ic.Components = append(ic.Components, meta.InstrumentComponent{Order: order, Params: params})
				order++
			}
		}
	}
	if swNode, ok := icNode.first("softwareRef"); ok {
		ic.SoftwareRef, _ = swNode.attrs.get("ref")
	}
	return ic
}

func buildDataProcessing(dpNode *node, groups *cv.GroupTable) meta.DataProcessing {
	id, _ := dpNode.attrs.get("id")
	dp := meta.DataProcessing{ID: id}
	for i, pmNode := range dpNode.all("processingMethod") {
		softwareRef, _ := pmNode.attrs.get("softwareRef")
		params, _ := paramsOf(pmNode, groups)
		dp.Methods = append(dp.Methods, meta.ProcessingMethod{Order: i, SoftwareRef: softwareRef, Params: params})
	}
	return dp
}

func buildRun(runNode *node, groups *cv.GroupTable) meta.Run {
	run := meta.Run{}
	run.ID, _ = runNode.attrs.get("id")
	run.DefaultInstrumentRef, _ = runNode.attrs.get("defaultInstrumentConfigurationRef")
	run.DefaultSourceFileRef, _ = runNode.attrs.get("defaultSourceFileRef")
	run.SampleRef, _ = runNode.attrs.get("sampleRef")
	if startTime, ok := runNode.attrs.get("startTimeStamp"); ok && startTime != "" {
		if t, err := time.Parse(time.RFC3339, startTime); err == nil {
			run.StartTime, run.HasStartTime = t, true
		}
	}
	run.Params, _ = paramsOf(runNode, groups)
	return run
}

// buildGroupTable reads a <referenceableParamGroupList> into a
// cv.GroupTable, so that later containers (spectra, chromatograms,
// metadata sections) can resolve their group refs against it.
func buildGroupTable(root *node) *cv.GroupTable {
	groups := cv.NewGroupTable()
	listNode, ok := root.first("referenceableParamGroupList")
	if !ok {
		return groups
	}
	for _, groupNode := range listNode.all("referenceableParamGroup") {
		id, _ := groupNode.attrs.get("id")
		var params cv.ParamList
		for _, c := range groupNode.children {
			if c.name == "cvParam" || c.name == "userParam" {
				if p, err := paramFromAttrs(c.name, c.attrs); err == nil {
					params = append(params, p)
				}
			}
		}
		groups.Define(cv.ParamGroup{ID: id, Params: params})
	}
	return groups
}
